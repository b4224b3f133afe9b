package notification

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds SMTP connection settings
type SMTPConfig struct {
	Host     string
	Port     int
	TLS      bool
	Username string
	Password string
	From     string
}

type noticeTemplate struct {
	Subject string
	Text    string
}

var noticeTemplates = map[NoticeType]noticeTemplate{
	NoticeRoleChanged: {
		Subject: "Your member role has changed",
		Text:    "The role of your account was updated by an administrator (operation: {{.Operation}}).\n",
	},
	NoticeAccountDeactivated: {
		Subject: "Your account has been deactivated",
		Text:    "Your account was deactivated by an administrator.\n",
	},
	NoticeAccountCreated: {
		Subject: "Your account has been created",
		Text:    "An administrator created an account for you.\n",
	},
}

// EmailNotifier implements Notifier over SMTP
type EmailNotifier struct {
	config SMTPConfig
	client *mail.Client
}

// NewEmailNotifier creates a new SMTP-backed notifier
func NewEmailNotifier(config SMTPConfig) (*EmailNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTimeout(30 * time.Second),
	}

	// Only add authentication if username and password are provided
	if config.Username != "" && config.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	if config.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{InsecureSkipVerify: true}),
			mail.WithTLSPolicy(mail.NoTLS),
		)
	}

	client, err := mail.NewClient(config.Host, opts...)
	if err != nil {
		slog.Error("Failed to create mail client", "err", err)
		return nil, err
	}

	return &EmailNotifier{config: config, client: client}, nil
}

// Notify implements Notifier
func (e *EmailNotifier) Notify(ctx context.Context, noticeType NoticeType, to string, data map[string]string) error {
	if to == "" {
		return fmt.Errorf("email notification requires a recipient address")
	}

	tpl, ok := noticeTemplates[noticeType]
	if !ok {
		return fmt.Errorf("no template for notice type %q", noticeType)
	}

	tmpl, err := template.New("text").Parse(tpl.Text)
	if err != nil {
		return fmt.Errorf("failed to parse notice template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute notice template: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(e.config.From); err != nil {
		return fmt.Errorf("failed to set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("failed to set to address: %w", err)
	}
	msg.Subject(tpl.Subject)
	msg.SetBodyString(mail.TypeTextPlain, buf.String())

	if err := e.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Notification sent", "type", noticeType, "to", to)
	return nil
}
