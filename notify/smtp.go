package notify

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"time"

	"canal-denuncies/models"
)

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	FromName string
	ToEmail  string
	Location *time.Location
}

// SMTP sends a plain text notification through an authenticated SMTP relay.
type SMTP struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{cfg: cfg, send: smtp.SendMail}
}

func (s *SMTP) message(report models.Report) []byte {
	params := Params(report, s.cfg.FromName, s.cfg.Location)
	return []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		mime.QEncoding.Encode("UTF-8", s.cfg.FromName), s.cfg.User, s.cfg.ToEmail,
		mime.QEncoding.Encode("UTF-8", Subject(report)), PlainText(params)))
}

// Notify ignores ctx cancellation once the SMTP exchange has started; net/smtp has no
// context support.
func (s *SMTP) Notify(ctx context.Context, report models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.send(
		s.cfg.Host+":"+s.cfg.Port,
		smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host),
		s.cfg.User,
		[]string{s.cfg.ToEmail},
		s.message(report),
	)
	if err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}
