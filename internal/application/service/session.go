package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agent-daemon/internal/application/port/output"
)

var _ output.SessionPort = (*BrowserSession)(nil)

const probeTimeout = 3 * time.Second

// BrowserSession is the single browser/page slot shared by every automation
// run. The mutex covers acquire, probe and recreate only. Runs that hold the
// page use it concurrently and the last navigation wins.
//
// Handles are never closed on success: the browser is meant to outlive the
// request, and the daemon, so a person can keep using it.
type BrowserSession struct {
	mu        sync.Mutex
	newEngine func() (output.BrowserEngine, error)
	engine    output.BrowserEngine
	browser   output.Browser
	page      output.PagePort
	launches  int

	logger  output.LoggerPort
	metrics output.MetricsPort
}

func NewBrowserSession(newEngine func() (output.BrowserEngine, error), logger output.LoggerPort, metrics output.MetricsPort) *BrowserSession {
	return &BrowserSession{
		newEngine: newEngine,
		logger:    logger.WithField("component", "session"),
		metrics:   metrics,
	}
}

func (s *BrowserSession) Acquire(ctx context.Context) (output.Browser, output.PagePort, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page != nil {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := s.page.Probe(probeCtx)
		cancel()
		if err == nil {
			return s.browser, s.page, nil
		}
		s.logger.Warn("Browser session is dead, recreating", "error", err)
		s.reset()
	}

	if s.engine == nil {
		engine, err := s.newEngine()
		if err != nil {
			return nil, nil, fmt.Errorf("create browser engine: %w", err)
		}
		s.engine = engine
	}

	browser, err := s.engine.Launch(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("launch browser: %w", err)
	}

	page, err := browser.NewPage(ctx)
	if err != nil {
		_ = browser.Close()
		return nil, nil, fmt.Errorf("open page: %w", err)
	}

	s.browser = browser
	s.page = page
	s.launches++
	if s.metrics != nil {
		s.metrics.RecordBrowserLaunch()
	}
	s.logger.Info("Browser session started", "launches", s.launches)

	return browser, page, nil
}

// Launches reports how many browsers this session has started.
func (s *BrowserSession) Launches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.launches
}

func (s *BrowserSession) reset() {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Debug("Closing stale browser failed", "error", err)
		}
	}
	s.browser = nil
	s.page = nil
}
