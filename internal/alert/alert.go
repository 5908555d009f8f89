// Package alert sends feed-trouble notifications to operators over plain
// SMTP. Alerting is best effort: a mail failure is logged and never
// interrupts the processing cycle.
package alert

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// Config is the relay endpoint and addressing for alert mail.
type Config struct {
	Host string
	Port int
	From string
	To   []string
}

// Mailer sends feed status alerts through an SMTP relay that accepts
// unauthenticated submissions from inside the network.
type Mailer struct {
	cfg    Config
	logger *slog.Logger

	// send is swapped in tests.
	send func(addr, from string, to []string, msg []byte) error
}

func NewMailer(cfg Config, logger *slog.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: logger,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

// FeedTrouble notifies operators that one provider's feeds returned
// non-200 statuses this cycle.
func (m *Mailer) FeedTrouble(state domain.ProviderFeedState) {
	subject := "Provider Data Issue - Power Outage Feeds"
	body := fmt.Sprintf("Provider: %s\nStyle: %s\nMetadata Feed: %d\nDate Created Feed: %d\nData Feed: %d\n\nAn HTTP response code of 200 is expected for working feeds. Values other than 200 trigger this notification.",
		state.Provider, state.Style, state.MetadataStatus, state.DateStatus, state.DataStatus)

	if err := m.sendMessage(subject, body); err != nil {
		m.logger.Error("feed trouble alert not sent", "provider", state.Provider, "style", state.Style, "error", err)
		return
	}
	m.logger.Info("feed trouble alert sent", "provider", state.Provider, "style", state.Style)
}

func (m *Mailer) sendMessage(subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + strings.Join(m.cfg.To, ", "),
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	return m.send(addr, m.cfg.From, m.cfg.To, []byte(msg))
}
