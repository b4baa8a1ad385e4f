package client

import (
	"io"
	"time"
)

// ProgressEvent reports transfer progress for one file.
type ProgressEvent struct {
	Loaded        int64
	Total         int64
	Percent       float64
	PercentKnown  bool
	TimeRemaining time.Duration
	ETAKnown      bool
}

// progressReader counts bytes flowing through an upload body and
// emits progress events. Percent is only computed when the total is
// known, and lands exactly on 100 when loaded reaches total. The
// estimated time remaining is recomputed at most once per second from
// the average throughput since the transfer began, so the number does
// not jitter with every chunk.
type progressReader struct {
	r          io.Reader
	total      int64
	loaded     int64
	start      time.Time
	lastUpdate time.Time
	eta        time.Duration
	etaKnown   bool
	now        func() time.Time
	onProgress func(ProgressEvent)
}

func newProgressReader(r io.Reader, total int64, onProgress func(ProgressEvent)) *progressReader {
	return &progressReader{
		r:          r,
		total:      total,
		now:        time.Now,
		onProgress: onProgress,
	}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.advance(int64(n))
	}
	return n, err
}

func (p *progressReader) advance(n int64) {
	now := p.now()
	if p.start.IsZero() {
		p.start = now
		p.lastUpdate = now
	}
	p.loaded += n

	if p.total > 0 && now.Sub(p.lastUpdate) > time.Second {
		p.lastUpdate = now
		elapsed := now.Sub(p.start).Seconds()
		if elapsed > 0 && p.loaded > 0 {
			speed := float64(p.loaded) / elapsed
			remaining := float64(p.total - p.loaded)
			p.eta = time.Duration(remaining / speed * float64(time.Second))
			p.etaKnown = true
		}
	}

	if p.onProgress == nil {
		return
	}
	event := ProgressEvent{
		Loaded:        p.loaded,
		Total:         p.total,
		TimeRemaining: p.eta,
		ETAKnown:      p.etaKnown,
	}
	if p.total > 0 {
		event.Percent = float64(p.loaded) / float64(p.total) * 100
		event.PercentKnown = true
	}
	p.onProgress(event)
}
