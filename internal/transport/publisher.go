// SPDX-License-Identifier: MIT
package transport

import (
	"fmt"
	"sync"
	"time"

	"tuner/internal/analysis"
	applog "tuner/internal/log"
	"tuner/internal/pitch"
)

// Publisher runs the analysis cycle. On each tick it snapshots the latest
// capture window, runs the pitch analyzer over it, and fans the result out
// to every sink. It runs in its own goroutine managed by Start and Stop.
type Publisher struct {
	source   SampleSource
	analyzer *pitch.Analyzer
	bands    BandLevelProvider // optional
	sinks    []Transport
	interval time.Duration

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // protects ticker and doneChan during Start/Stop

	sequenceNum uint32
	lastFrame   uint64 // generation of the last analyzed window

	// Pre-allocated buffers so each cycle stays allocation-light.
	window []float64
	levels []float64
}

// NewPublisher creates a Publisher. bands may be nil when no band meter is
// wired. If the interval is not positive it defaults to 16ms (~60Hz).
func NewPublisher(interval time.Duration, source SampleSource, analyzer *pitch.Analyzer, bands BandLevelProvider, sinks ...Transport) (*Publisher, error) {
	if source == nil {
		return nil, fmt.Errorf("publisher: sample source cannot be nil")
	}
	if analyzer == nil {
		return nil, fmt.Errorf("publisher: analyzer cannot be nil")
	}
	if len(sinks) == 0 {
		return nil, fmt.Errorf("publisher: at least one sink is required")
	}

	if interval <= 0 {
		interval = 16 * time.Millisecond
		applog.Warnf("publisher: invalid interval provided, defaulting to %s", interval)
	}

	var levels []float64
	if bands != nil {
		levels = make([]float64, analysis.NumBands)
	}

	return &Publisher{
		source:   source,
		analyzer: analyzer,
		bands:    bands,
		sinks:    sinks,
		interval: interval,
		window:   make([]float64, analyzer.BufferLen()),
		levels:   levels,
	}, nil
}

// Start launches the analysis goroutine. Safe to call more than once;
// subsequent calls are no-ops while running.
func (p *Publisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("publisher: Start called but already running")
		return
	}

	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	// Local copies so the goroutine never races Start/Stop on the fields.
	ticker := p.ticker
	doneChan := p.doneChan

	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		applog.Infof("publisher: analysis cycle started (interval: %s)", p.interval)
		for {
			select {
			case <-ticker.C:
				p.runCycle()
			case <-doneChan:
				applog.Debugf("publisher: analysis cycle received stop signal")
				return
			}
		}
	}()
}

// Stop signals the goroutine to exit and waits for it. Safe to call more
// than once.
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		applog.Debugf("publisher: Stop called but not running")
		return nil
	}

	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})

	p.mu.Unlock()

	p.wg.Wait()
	applog.Infof("publisher: analysis cycle stopped")
	return nil
}

// runCycle performs one analysis pass: snapshot, analyze, publish. Windows
// already analyzed are skipped so sinks only see fresh results.
func (p *Publisher) runCycle() {
	frame := p.source.Snapshot(p.window)
	if frame == 0 || frame == p.lastFrame {
		return
	}
	p.lastFrame = frame

	result, ok := p.analyzer.Analyze(p.window)

	p.sequenceNum++
	update := Update{
		Seq:       p.sequenceNum,
		Timestamp: time.Now(),
		Detected:  ok,
		RMS:       p.analyzer.RMS(p.window),
	}
	if ok {
		update.Frequency = result.Frequency
		update.Note = result.Note
	}
	if p.bands != nil {
		if err := p.bands.LevelsInto(p.levels); err == nil {
			// Sinks hold the Update past this cycle (broadcast queues, the
			// display goroutine), so hand each one its own copy instead of
			// the reused scratch buffer.
			update.Bands = append([]float64(nil), p.levels...)
		}
	}

	for _, sink := range p.sinks {
		if err := sink.Send(update); err != nil {
			applog.Errorf("publisher: sink send error: %v", err)
		}
	}
}

// Close implements io.Closer by stopping the analysis cycle.
func (p *Publisher) Close() error {
	return p.Stop()
}

var _ interface{ Close() error } = (*Publisher)(nil)
