package notify

import (
	"context"
	"fmt"
	"time"

	"canal-denuncies/models"

	"github.com/apex/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridConfig struct {
	APIKey     string
	TemplateID string
	FromEmail  string
	FromName   string
	ToEmail    string
	Location   *time.Location
}

// SendGrid sends the notification through a dynamic template, or as plain text when
// no template is configured.
type SendGrid struct {
	cfg    SendGridConfig
	client *sendgrid.Client
}

func NewSendGrid(cfg SendGridConfig) *SendGrid {
	return &SendGrid{cfg: cfg, client: sendgrid.NewSendClient(cfg.APIKey)}
}

func (s *SendGrid) Message(report models.Report) *mail.SGMailV3 {
	params := Params(report, s.cfg.FromName, s.cfg.Location)

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail))

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(s.cfg.ToEmail, s.cfg.ToEmail))

	if s.cfg.TemplateID != "" {
		message.SetTemplateID(s.cfg.TemplateID)
		for k, v := range params {
			p.SetDynamicTemplateData(k, v)
		}
	} else {
		message.Subject = Subject(report)
		message.AddContent(mail.NewContent("text/plain", PlainText(params)))
	}
	message.AddPersonalizations(p)
	return message
}

func (s *SendGrid) Notify(ctx context.Context, report models.Report) error {
	response, err := s.client.SendWithContext(ctx, s.Message(report))
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", response.StatusCode, response.Body)
	}
	log.WithField("report", report.ID).Infof("notification sent, status %d", response.StatusCode)
	return nil
}
