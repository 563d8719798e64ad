package smtp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/magabrotheeeer/dramabox/internal/config"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
)

// ErrNoStartTLS сервер не поддерживает STARTTLS, а шифрование обязательно.
var ErrNoStartTLS = errors.New("smtp server does not support STARTTLS")

// Transport подключается к SMTP-серверу, по возможности включает STARTTLS
// и авторизуется, если задан пользователь.
type Transport struct {
	cfg  config.SMTP
	log  *slog.Logger
	dial func(network, addr string, timeout time.Duration) (net.Conn, error)
}

// NewTransport создает новый экземпляр Transport.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, log: log, dial: net.DialTimeout}
}

// Connect открывает SMTP-сессию. Созданный *smtp.Client уже реализует Client.
func (t *Transport) Connect() (Client, error) {
	const op = "smtp.Connect"
	log := t.log.With(sl.Op(op), slog.String("host", t.cfg.SMTPHost))
	addr := net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort)

	conn, err := t.dial("tcp", addr, t.cfg.SMTPTimeout)
	if err != nil {
		log.Error("failed to dial SMTP server", sl.Err(err))
		return nil, fmt.Errorf("%s: failed to dial SMTP server: %w", op, err)
	}
	if t.cfg.SMTPTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(t.cfg.SMTPTimeout))
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: failed to create SMTP client: %w", op, err)
	}

	if err := t.secure(client, log); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if t.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPassword, t.cfg.SMTPHost)
		if err = client.Auth(auth); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("%s: smtp auth failed: %w", op, err)
		}
	}

	return client, nil
}

func (t *Transport) secure(client *smtp.Client, log *slog.Logger) error {
	if ok, _ := client.Extension("STARTTLS"); !ok {
		if t.cfg.SMTPRequireTLS {
			return ErrNoStartTLS
		}
		log.Warn("SMTP server does not support STARTTLS, sending in plain text")
		return nil
	}
	tlsConfig := &tls.Config{
		ServerName: t.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	return nil
}

// Sender адрес отправителя: smtp.from, иначе пользователь SMTP.
func (t *Transport) Sender() string {
	if t.cfg.SMTPFrom != "" {
		return t.cfg.SMTPFrom
	}
	return t.cfg.SMTPUser
}
