package automation

import (
	"context"
	"errors"
	"fmt"

	"agent-daemon/internal/application/port/output"
	"agent-daemon/internal/domain/entity"
)

func (r *Runner) googleFlow(ctx context.Context, page output.PagePort, task entity.TaskDescriptor, st *run) error {
	if err := page.Navigate(ctx, r.cfg.GoogleHomeURL); err != nil {
		return fmt.Errorf("open search engine: %w", err)
	}
	st.to(entity.StateNavigated)

	if err := r.checkCaptcha(page); err != nil {
		return err
	}

	if !task.HasQuery() {
		return nil
	}

	st.to(entity.StateSearchAttempted)
	if err := r.googleSearch(ctx, page, task.SearchQuery); err != nil {
		if captchaErr := r.checkCaptcha(page); captchaErr != nil {
			return captchaErr
		}
		return err
	}

	if task.HasAction(entity.ActionClickFirstResult) {
		clicked, err := r.clickFirstResult(ctx, page)
		if err != nil {
			return err
		}
		if clicked {
			st.to(entity.StateResultClicked)
		}
	}
	return nil
}

func (r *Runner) googleSearch(ctx context.Context, page output.PagePort, query string) error {
	box, sel, err := page.FindVisible(ctx, googleSearchBoxSelectors, r.cfg.SearchBoxTimeout)
	if err != nil {
		return fmt.Errorf("find search box: %w", err)
	}
	r.logger.Debug("Search box found", "selector", sel)

	if err := box.Click(ctx); err != nil {
		return fmt.Errorf("focus search box: %w", err)
	}
	if err := box.Type(ctx, query, r.cfg.TypeDelay); err != nil {
		return fmt.Errorf("type query: %w", err)
	}
	if err := box.PressEnter(ctx); err != nil {
		return fmt.Errorf("submit query: %w", err)
	}

	if err := page.WaitFor(ctx, googleResultsContainer, r.cfg.ResultsTimeout); err != nil {
		return fmt.Errorf("wait for results: %w", err)
	}
	return nil
}

// clickFirstResult clicks the first visible organic result. A missing
// result is not an error: a debug screenshot is saved and the run goes on.
func (r *Runner) clickFirstResult(ctx context.Context, page output.PagePort) (bool, error) {
	el, sel, err := page.FindVisible(ctx, firstResultSelectors, r.cfg.ResultSelectorTimeout)
	if errors.Is(err, output.ErrElementNotFound) {
		r.logger.Warn("No visible first result, saving screenshot", "path", r.cfg.DebugScreenshotPath)
		if shotErr := page.Screenshot(ctx, r.cfg.DebugScreenshotPath); shotErr != nil {
			r.logger.Warn("Debug screenshot failed", "error", shotErr)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find first result: %w", err)
	}

	r.logger.Debug("First result found", "selector", sel)
	if err := el.ScrollIntoView(ctx); err != nil {
		return false, fmt.Errorf("scroll to first result: %w", err)
	}
	if err := el.Click(ctx); err != nil {
		return false, fmt.Errorf("click first result: %w", err)
	}
	return true, nil
}
