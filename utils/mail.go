package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"
)

type EmailData struct {
	Name        string
	Message     string
	ActionURL   string
	ActionLabel string
}

type Mailer interface {
	Send(emailTo, emailSubject string, data EmailData) error
}

var emailLayout = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html><body>
<p>Hi {{.Name}},</p>
<p>{{.Message}}</p>
{{if .ActionURL}}<p><a href="{{.ActionURL}}">{{.ActionLabel}}</a></p>{{end}}
</body></html>`))

type SMTPConfig struct {
	From     string
	Password string
	Host     string
	Address  string
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(emailTo, emailSubject string, data EmailData) error {
	var body bytes.Buffer
	if err := emailLayout.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.From,
		emailTo,
		emailSubject,
		body.String(),
	)

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(m.cfg.Address, auth, m.cfg.From, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogMailer only logs outgoing mail. It is used when SMTP is not configured.
type LogMailer struct {
	Log logrus.FieldLogger
}

func (m LogMailer) Send(emailTo, emailSubject string, data EmailData) error {
	m.Log.WithFields(logrus.Fields{"to": emailTo, "subject": emailSubject, "action_url": data.ActionURL}).Info("email not sent: smtp disabled")
	return nil
}
