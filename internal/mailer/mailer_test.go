package mailer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/config"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *recordingSender) Send(_ context.Context, to, subject, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, to+"|"+subject+"|"+html)
	return nil
}

func TestPoolDeliversMail(t *testing.T) {
	sender := &recordingSender{}
	pool := NewPool(sender, &config.MailConfig{Workers: 2, QueueSize: 8}, zap.NewNop())

	pool.EnqueueDpmReceived(DpmReceivedEmail{
		To:           "dana.driver@example.com",
		Name:         "Dana Driver",
		DpmType:      "Missed Block",
		ReceivedDate: "01/15/2026",
		Manager:      "Morgan Manager",
		URL:          "https://dpm.example.com",
	})
	pool.Close()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d messages, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if !strings.HasPrefix(msg, "dana.driver@example.com|DPM Received: Missed Block|") {
		t.Errorf("unexpected recipient or subject in %q", msg)
	}
	if !strings.Contains(msg, "Dana Driver") || !strings.Contains(msg, "Missed Block") {
		t.Errorf("rendered body missing fields: %q", msg)
	}
}

func TestPoolSwallowsSendFailures(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	pool := NewPool(sender, &config.MailConfig{}, zap.NewNop())

	pool.EnqueuePointsBalance(PointsBalanceEmail{
		To:      "dana.driver@example.com",
		Name:    "Dana Driver",
		Manager: "Morgan Manager",
		Points:  -5,
	})
	pool.Close()
	// Nothing to assert beyond Close returning: failures are logged only.
}
