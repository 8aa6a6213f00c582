package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/config"
)

const w2wDateLayout = "01/02/2006"

// w2wShiftProvider fetches assigned shifts from the When2Work API.
type w2wShiftProvider struct {
	cfg    *config.AutogenConfig
	client *http.Client
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewW2WShiftProvider creates the live When2Work shift provider.
func NewW2WShiftProvider(cfg *config.AutogenConfig, loc *time.Location, logger *zap.Logger) ShiftProvider {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &w2wShiftProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

func (p *w2wShiftProvider) GetAssignedShifts(ctx context.Context) ([]Shift, error) {
	today := p.now().In(p.loc).Format(w2wDateLayout)

	q := url.Values{}
	q.Set("start_date", today)
	q.Set("end_date", today)
	q.Set("key", p.cfg.W2WKey)
	reqURL := p.cfg.W2WURL + "?" + q.Encode()

	p.logger.Debug("fetching shifts from When2Work", zap.String("date", today))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrShiftSourceUnavailable, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("When2Work request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrShiftSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.logger.Error("When2Work request returned non-2xx", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrShiftSourceUnavailable, resp.StatusCode)
	}

	// The payload is read fully or not at all; no partial consumption.
	var payload assignedShifts
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		p.logger.Error("When2Work payload undecodable", zap.Error(err))
		return nil, fmt.Errorf("%w: decoding payload: %v", ErrShiftSourceUnavailable, err)
	}

	p.logger.Debug("retrieved shifts from When2Work", zap.Int("count", len(payload.Shifts)))
	return payload.Shifts, nil
}
