// Package smtp предоставляет SMTP-транспорт для писем уведомлений и интерфейсы,
// позволяющие подменить его в тестах.
package smtp

import "io"

// Client открытая SMTP-сессия.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Connector открывает сессии и знает адрес отправителя.
type Connector interface {
	Connect() (Client, error)
	Sender() string
}
