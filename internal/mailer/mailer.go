package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/config"
)

// DpmReceivedEmail is the model for the "you received a DPM" notification.
type DpmReceivedEmail struct {
	To           string
	Name         string
	DpmType      string
	ReceivedDate string
	Manager      string
	URL          string
}

// PointsBalanceEmail is the model for the points-balance notification.
type PointsBalanceEmail struct {
	To      string
	Name    string
	Manager string
	Points  int
}

// WelcomeEmail is the model for the new-account notification.
type WelcomeEmail struct {
	To       string
	Name     string
	Password string
	URL      string
}

// Dispatcher accepts notification jobs for asynchronous delivery.
// Enqueueing never blocks and failures are logged, not propagated: mail is
// strictly best-effort and must not affect the transition that caused it.
type Dispatcher interface {
	EnqueueDpmReceived(email DpmReceivedEmail)
	EnqueuePointsBalance(email PointsBalanceEmail)
	EnqueueWelcome(email WelcomeEmail)
}

// Sender delivers one rendered message. Implemented by the Mailgun client
// and by no-op/test doubles.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// ── Mailgun sender ──

type mailgunSender struct {
	mg       *mailgun.MailgunImpl
	from     string
	override string
}

// NewMailgunSender creates the Mailgun-backed Sender.
func NewMailgunSender(cfg *config.MailConfig) Sender {
	return &mailgunSender{
		mg:       mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		from:     cfg.From,
		override: cfg.Override,
	}
}

func (s *mailgunSender) Send(ctx context.Context, to, subject, html string) error {
	if s.override != "" {
		to = s.override
	}

	msg := s.mg.NewMessage(s.from, subject, "", to)
	msg.SetHtml(html)

	_, _, err := s.mg.Send(ctx, msg)
	return err
}

// NopSender drops every message; used when mail is disabled.
type NopSender struct{}

func (NopSender) Send(context.Context, string, string, string) error { return nil }

// ── dispatch pool ──

const sendTimeout = 15 * time.Second

type job struct {
	to      string
	subject string
	html    string
}

// Pool dispatches mail on a small bounded worker pool. When the queue is
// full new jobs are dropped with a warning rather than blocking the caller.
type Pool struct {
	sender Sender
	logger *zap.Logger
	jobs   chan job
	wg     sync.WaitGroup
}

// NewPool starts a dispatch pool. Workers are clamped to 2..5.
func NewPool(sender Sender, cfg *config.MailConfig, logger *zap.Logger) *Pool {
	workers := cfg.Workers
	if workers < 2 {
		workers = 2
	}
	if workers > 5 {
		workers = 5
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}

	p := &Pool{
		sender: sender,
		logger: logger,
		jobs:   make(chan job, queueSize),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := p.sender.Send(ctx, j.to, j.subject, j.html)
		cancel()
		if err != nil {
			p.logger.Warn("mail delivery failed",
				zap.String("to", j.to),
				zap.String("subject", j.subject),
				zap.Error(err),
			)
			continue
		}
		p.logger.Info("mail sent", zap.String("to", j.to), zap.String("subject", j.subject))
	}
}

// Close stops accepting jobs and lets queued mail drain.
func (p *Pool) Close() {
	close(p.jobs)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		p.logger.Warn("mail pool shutdown timed out with jobs still queued")
	}
}

func (p *Pool) enqueue(to, subject, html string) {
	select {
	case p.jobs <- job{to: to, subject: subject, html: html}:
	default:
		p.logger.Warn("mail queue full, dropping message",
			zap.String("to", to),
			zap.String("subject", subject),
		)
	}
}

// EnqueueDpmReceived queues the DPM-received notification.
func (p *Pool) EnqueueDpmReceived(email DpmReceivedEmail) {
	html, err := render(dpmReceivedTmpl, email)
	if err != nil {
		p.logger.Error("rendering dpm-received mail", zap.Error(err))
		return
	}
	p.enqueue(email.To, "DPM Received: "+email.DpmType, html)
}

// EnqueuePointsBalance queues the points-balance notification.
func (p *Pool) EnqueuePointsBalance(email PointsBalanceEmail) {
	html, err := render(pointsBalanceTmpl, email)
	if err != nil {
		p.logger.Error("rendering points-balance mail", zap.Error(err))
		return
	}
	p.enqueue(email.To, "DPM Points Balance", html)
}

// EnqueueWelcome queues the welcome notification.
func (p *Pool) EnqueueWelcome(email WelcomeEmail) {
	html, err := render(welcomeTmpl, email)
	if err != nil {
		p.logger.Error("rendering welcome mail", zap.Error(err))
		return
	}
	p.enqueue(email.To, "Welcome to UTS DPM", html)
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
