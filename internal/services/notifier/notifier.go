// Package notifier превращает уведомления из RabbitMQ в письма участникам.
package notifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/lib/smtp"
	"github.com/magabrotheeeer/dramabox/internal/metrics"
	"github.com/magabrotheeeer/dramabox/internal/models"
)

// Service отправляет письма через SMTP-транспорт.
type Service struct {
	transport smtp.Connector
	appName   string
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(transport smtp.Connector, appName string, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		appName:   appName,
		log:       log,
	}
}

// SendVipExpiring обрабатывает сообщение очереди notifications.vip_expiring.
func (s *Service) SendVipExpiring(body []byte) error {
	const op = "notifier.SendVipExpiring"
	var message models.VipNotification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Op(op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := fmt.Sprintf("%s: VIP заканчивается завтра", s.appName)
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаш VIP-доступ в %s действует до %s.\n\n"+
		"Продлите подписку, чтобы смотреть все эпизоды без билетов.",
		message.Username, s.appName, message.ExpiryDate.Format(models.DayLayout))

	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

// SendVipExpired обрабатывает сообщение очереди notifications.vip_expired.
func (s *Service) SendVipExpired(body []byte) error {
	const op = "notifier.SendVipExpired"
	var message models.VipNotification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Op(op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := fmt.Sprintf("%s: VIP закончился", s.appName)
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nСрок вашего VIP-доступа в %s истёк %s.\n\n"+
		"Разблокированные эпизоды остаются доступны, новые открываются за билеты.",
		message.Username, s.appName, message.ExpiryDate.Format(models.DayLayout))

	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) (err error) {
	const op = "notifier.sendEmail"
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
			err = fmt.Errorf("%s: %w", op, err)
		}
		metrics.EmailsSent.WithLabelValues(result).Inc()
	}()

	msg := strings.Join([]string{
		"From: " + s.transport.Sender(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(s.transport.Sender()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.Sender()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
