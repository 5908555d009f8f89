package alert

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

func newTestMailer(sendErr error) (*Mailer, *capturedMail) {
	captured := &capturedMail{}
	m := NewMailer(Config{
		Host: "relay.example.test",
		Port: 25,
		From: "etl@example.test",
		To:   []string{"ops@example.test"},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.send = func(addr, from string, to []string, msg []byte) error {
		captured.addr = addr
		captured.from = from
		captured.to = to
		captured.msg = string(msg)
		return sendErr
	}
	return m, captured
}

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func TestFeedTrouble_MessageContent(t *testing.T) {
	m, captured := newTestMailer(nil)

	m.FeedTrouble(domain.ProviderFeedState{
		Provider:       "PEP",
		Style:          domain.Zip,
		MetadataStatus: 200,
		DateStatus:     200,
		DataStatus:     503,
	})

	assert.Equal(t, "relay.example.test:25", captured.addr)
	assert.Equal(t, "etl@example.test", captured.from)
	require.Equal(t, []string{"ops@example.test"}, captured.to)
	assert.Contains(t, captured.msg, "Subject: Provider Data Issue")
	assert.Contains(t, captured.msg, "Provider: PEP")
	assert.Contains(t, captured.msg, "Data Feed: 503")
}

func TestFeedTrouble_SendFailureDoesNotPanic(t *testing.T) {
	m, _ := newTestMailer(errors.New("relay unreachable"))

	// best effort only; must not propagate
	m.FeedTrouble(domain.ProviderFeedState{Provider: "DEL", Style: domain.County, DataStatus: 500})
}
