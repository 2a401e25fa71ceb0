// Package email sends transactional notification mail over SMTP.
package email

import (
	"fmt"

	mail "gopkg.in/mail.v2"

	"github.com/chatterbox-dev/chatterbox/internal/config"
)

// Sender is implemented by anything able to deliver one email.
type Sender interface {
	Send(to, subject, body string) error
}

type Client struct {
	cfg    *config.Email
	dialer *mail.Dialer
}

func New(cfg *config.Email) *Client {
	return &Client{
		cfg:    cfg,
		dialer: mail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.Username, cfg.Password),
	}
}

func (c *Client) Send(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetAddressHeader("From", c.cfg.Username, c.cfg.SenderName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := c.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
