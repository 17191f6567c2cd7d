// Package automation drives the shared browser page to carry out a parsed
// task. Runs happen in the background: failures are logged, never returned
// to the HTTP caller, and the browser is always left open afterwards.
package automation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agent-daemon/internal/application/port/output"
	"agent-daemon/internal/application/service"
	"agent-daemon/internal/domain/entity"
)

var ErrCaptcha = errors.New("captcha or bot check page")

const (
	strategyGoogle = "google"
	strategySite   = "site"
)

type Runner struct {
	session  output.SessionPort
	sites    *service.SiteRegistry
	notifier output.UserNotifierPort
	metrics  output.MetricsPort
	logger   output.LoggerPort
	cfg      Config
}

func NewRunner(
	session output.SessionPort,
	sites *service.SiteRegistry,
	notifier output.UserNotifierPort,
	metrics output.MetricsPort,
	logger output.LoggerPort,
	cfg Config,
) *Runner {
	return &Runner{
		session:  session,
		sites:    sites,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.WithField("component", "automation"),
		cfg:      cfg,
	}
}

// run tracks one pass through the strategy state machine.
type run struct {
	strategy string
	state    entity.AutomationState
	logger   output.LoggerPort
}

func (r *run) to(state entity.AutomationState) {
	r.logger.Debug("Automation state", "strategy", r.strategy, "from", r.state, "to", state)
	r.state = state
}

// Run executes the strategy for task on the shared page and reports how far
// it got. It never panics.
func (r *Runner) Run(ctx context.Context, task entity.TaskDescriptor) (out entity.AutomationOutcome) {
	start := time.Now()

	strategy := strategySite
	if task.Website == entity.DefaultSite {
		strategy = strategyGoogle
	}
	log := r.logger.WithFields(map[string]any{
		"strategy": strategy,
		"site":     task.Website,
		"query":    task.SearchQuery,
	})

	out = entity.AutomationOutcome{Strategy: strategy, State: entity.StateStart}
	defer func() {
		if p := recover(); p != nil {
			out.State = entity.StateAbortedError
			out.Err = fmt.Errorf("automation panic: %v", p)
		}
		r.finish(log, out, time.Since(start))
	}()

	_, page, err := r.session.Acquire(ctx)
	if err != nil {
		out.State = entity.StateAbortedError
		out.Err = err
		return out
	}

	st := &run{strategy: strategy, state: entity.StateStart, logger: log}
	if strategy == strategyGoogle {
		err = r.googleFlow(ctx, page, task, st)
	} else {
		err = r.siteFlow(ctx, page, task, st)
	}

	out.Strategy = st.strategy
	out.URL, _ = page.URL()
	switch {
	case errors.Is(err, ErrCaptcha):
		st.to(entity.StateAbortedCaptcha)
		r.notifier.ShowManualIntervention(ctx, "Bot check detected, solve it in the browser window", out.URL)
	case err != nil:
		st.to(entity.StateAbortedError)
	default:
		st.to(entity.StateDone)
	}
	out.State = st.state
	out.Err = err
	return out
}

func (r *Runner) finish(log output.LoggerPort, out entity.AutomationOutcome, elapsed time.Duration) {
	if r.metrics != nil {
		r.metrics.RecordAutomation(out.Strategy, string(out.State), elapsed)
	}
	if out.Err != nil {
		log.Error("Automation stopped, browser left open", "state", out.State, "url", out.URL, "error", out.Err)
		return
	}
	log.Info("Automation finished, browser left open", "state", out.State, "url", out.URL, "elapsed", elapsed)
}

func isCaptcha(url string) bool {
	lowered := strings.ToLower(url)
	for _, m := range captchaMarkers {
		if strings.Contains(lowered, m) {
			return true
		}
	}
	return false
}

func (r *Runner) checkCaptcha(page output.PagePort) error {
	url, err := page.URL()
	if err != nil {
		return nil
	}
	if isCaptcha(url) {
		return fmt.Errorf("%w: %s", ErrCaptcha, url)
	}
	return nil
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
