package notifier

import (
	"context"
	"fmt"

	"github.com/mailjet/mailjet-apiv3-go"

	"gite/pkg/logger"
)

type Email struct {
	To       string
	Subject  string
	TextPart string
	HTMLPart string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// mailjetSender is the part of *mailjet.Client the mailer uses.
type mailjetSender interface {
	SendMailV31(data *mailjet.MessagesV31) (*mailjet.ResultsV31, error)
}

type MailjetMailer struct {
	client   mailjetSender
	from     string
	fromName string
}

func NewMailjetMailer(publicKey, privateKey, from, fromName string) *MailjetMailer {
	return &MailjetMailer{
		client:   mailjet.NewMailjetClient(publicKey, privateKey),
		from:     from,
		fromName: fromName,
	}
}

func (m *MailjetMailer) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	messages := &mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{{
		From: &mailjet.RecipientV31{
			Email: m.from,
			Name:  m.fromName,
		},
		To: &mailjet.RecipientsV31{
			mailjet.RecipientV31{Email: email.To},
		},
		Subject:  email.Subject,
		TextPart: email.TextPart,
		HTMLPart: email.HTMLPart,
	}}}

	res, err := m.client.SendMailV31(messages)
	if err != nil {
		return fmt.Errorf("mailjet send failed: %w", err)
	}
	for _, r := range res.ResultsV31 {
		if r.Status != "success" {
			return fmt.Errorf("mailjet rejected message to %s: status %q", email.To, r.Status)
		}
	}
	return nil
}

// LogMailer writes notifications to the log instead of sending them.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, email Email) error {
	m.log.Info("Notification not sent, mail disabled", "to", email.To, "subject", email.Subject)
	return nil
}
