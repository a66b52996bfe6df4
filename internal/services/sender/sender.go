// Package services содержит бизнес-логику почтовых уведомлений
// о смене биллингового статуса.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
	"github.com/thoughts2action/thoughts2action/internal/lib/smtp"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// SenderService отправляет письма по сообщениям из очереди уведомлений.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendEntitlementChanged отправляет пользователю письмо о смене
// статуса подписки. body — JSON models.NotificationInfo из очереди.
func (s *SenderService) SendEntitlementChanged(body []byte) error {
	var message models.NotificationInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject, bodyText := composeStatusEmail(message)
	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

// composeStatusEmail подбирает тему и текст письма под статус подписки.
func composeStatusEmail(message models.NotificationInfo) (string, string) {
	switch message.Status {
	case models.StatusActive:
		return "Подписка Thoughts2Action активирована",
			fmt.Sprintf("Здравствуйте, %s!\n\nВаша подписка на Thoughts2Action активирована.\nВам доступны все функции сервиса.",
				message.Username)
	case models.StatusPastDue:
		return "Проблема с оплатой подписки Thoughts2Action",
			fmt.Sprintf("Здравствуйте, %s!\n\nНе удалось списать оплату за подписку Thoughts2Action.\nПожалуйста, обновите платежные данные, иначе доступ будет приостановлен.",
				message.Username)
	case models.StatusCancelled:
		return "Подписка Thoughts2Action отменена",
			fmt.Sprintf("Здравствуйте, %s!\n\nВаша подписка на Thoughts2Action отменена.\nВы можете оформить ее заново в любой момент.",
				message.Username)
	default:
		return "Изменение статуса подписки Thoughts2Action",
			fmt.Sprintf("Здравствуйте, %s!\n\nСтатус вашей подписки на Thoughts2Action изменился: %s.",
				message.Username, message.Status)
	}
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
