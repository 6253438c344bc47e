// Package mail delivers one-time login codes.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/charmbracelet/log"
	"github.com/genesisgates/genesis/pkg/config"
)

// Mailer delivers a login code to an email address.
type Mailer interface {
	SendCode(ctx context.Context, to, code string, ttl time.Duration) error
}

// Message is passed as data when executing the message template.
type Message struct {
	Email    string
	SiteName string
	Code     string
	TTL      time.Duration
}

// Subject is the subject line of login code emails.
const Subject = "Your login code"

var bodyTmpl = template.Must(template.New("code").Parse(`Hi {{.Email}},

Your {{.SiteName}} login code is {{.Code}}.

It expires in {{printf "%.f" .TTL.Minutes}} minutes.

If you did not ask for a code you can ignore this email.
`))

// Body renders the text body of a login code email.
func Body(m Message) (string, error) {
	var b bytes.Buffer
	if err := bodyTmpl.Execute(&b, m); err != nil {
		return "", fmt.Errorf("render message: %w", err)
	}
	return b.String(), nil
}

// New returns the Mailer selected by cfg.Mail.Driver.
func New(ctx context.Context, cfg *config.Config) (Mailer, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	logger := log.FromContext(ctx).WithPrefix("mail")
	switch cfg.Mail.Driver {
	case "", "log":
		return &LogMailer{site: cfg.Name, logger: logger}, nil
	case "resend":
		return NewResend(cfg.Name, cfg.Mail.From, cfg.Mail.APIKey, cfg.Mail.Endpoint, nil), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Mail.Driver)
	}
}

// LogMailer writes login codes to the logger. Use it for development only.
type LogMailer struct {
	site   string
	logger *log.Logger
}

var _ Mailer = (*LogMailer)(nil)

// SendCode implements Mailer.
func (m *LogMailer) SendCode(_ context.Context, to, code string, ttl time.Duration) error {
	body, err := Body(Message{Email: to, SiteName: m.site, Code: code, TTL: ttl})
	if err != nil {
		return err
	}
	m.logger.Info("login code", "to", to, "subject", Subject, "code", code, "expires_in", ttl)
	m.logger.Debug(body)
	return nil
}
