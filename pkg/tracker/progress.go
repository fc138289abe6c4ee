package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Progress counts processed and failed conversations and periodically logs a
// progress line with throughput and ETA. Safe for concurrent use by parallel
// workers.
type Progress struct {
	mu         sync.Mutex
	total      int
	processed  int
	failed     int
	startTime  time.Time
	lastUpdate time.Time
}

func NewProgress(total int) *Progress {
	now := time.Now()
	return &Progress{
		total:      total,
		startTime:  now,
		lastUpdate: now,
	}
}

// Update records one finished conversation. A progress line is emitted every
// 100 conversations, at the end, or when more than 5 seconds passed since the
// previous line.
func (p *Progress) Update(success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed++
	if !success {
		p.failed++
	}

	now := time.Now()
	if p.processed%100 == 0 || p.processed == p.total || now.Sub(p.lastUpdate) > 5*time.Second {
		p.logProgress(now)
		p.lastUpdate = now
	}
}

func (p *Progress) logProgress(now time.Time) {
	elapsed := now.Sub(p.startTime).Seconds()
	rate := 0.0
	eta := time.Duration(0)
	if elapsed > 0 {
		rate = float64(p.processed) / elapsed
		if rate > 0 {
			eta = time.Duration(float64(p.total-p.processed)/rate) * time.Second
		}
	}
	percent := 0.0
	if p.total > 0 {
		percent = float64(p.processed) / float64(p.total) * 100
	}

	log.Info().
		Int("processed", p.processed).
		Int("total", p.total).
		Int("failed", p.failed).
		Str("percent", fmt.Sprintf("%.1f%%", percent)).
		Str("rate", fmt.Sprintf("%.1f/s", rate)).
		Str("eta", eta.String()).
		Msg("progress")
}

// Stats is the final run summary.
type Stats struct {
	Total       int
	Processed   int
	Failed      int
	SuccessRate float64
	Elapsed     time.Duration
	Rate        float64
}

func (p *Progress) Final() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime)
	stats := Stats{
		Total:     p.total,
		Processed: p.processed,
		Failed:    p.failed,
		Elapsed:   elapsed,
	}
	if p.processed > 0 {
		stats.SuccessRate = float64(p.processed-p.failed) / float64(p.processed) * 100
	}
	if elapsed.Seconds() > 0 {
		stats.Rate = float64(p.processed) / elapsed.Seconds()
	}
	return stats
}
