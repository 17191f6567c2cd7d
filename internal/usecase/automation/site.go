package automation

import (
	"context"
	"errors"
	"fmt"

	"agent-daemon/internal/application/port/output"
	"agent-daemon/internal/domain/entity"
)

func (r *Runner) siteFlow(ctx context.Context, page output.PagePort, task entity.TaskDescriptor, st *run) error {
	site := r.sites.Resolve(task.Website)

	if err := page.Navigate(ctx, site.BaseURL); err != nil {
		return fmt.Errorf("open %s: %w", site.ID, err)
	}
	st.to(entity.StateNavigated)

	if err := sleep(ctx, r.cfg.SettleDelay); err != nil {
		return err
	}

	if !task.HasQuery() {
		return nil
	}

	st.to(entity.StateSearchAttempted)
	err := r.siteSearch(ctx, page, task)
	if !errors.Is(err, output.ErrElementNotFound) {
		return err
	}

	// No usable search box on the site: let the search engine do a
	// site-scoped query instead.
	query := fmt.Sprintf("site:%s %s", site.ID, task.SearchQuery)
	r.logger.Info("Site search box not found, falling back to search engine", "site", site.ID, "query", query)

	fallback := task.WithQuery(entity.DefaultSite, query)
	st.strategy = strategyGoogle
	return r.googleFlow(ctx, page, fallback, st)
}

func (r *Runner) siteSearch(ctx context.Context, page output.PagePort, task entity.TaskDescriptor) error {
	selectors := r.sites.SearchSelectors(task.Website)

	box, sel, err := page.FindVisible(ctx, selectors, r.cfg.SearchBoxTimeout)
	if err != nil {
		return err
	}
	r.logger.Debug("Site search box found", "selector", sel)

	if err := box.Click(ctx); err != nil {
		return fmt.Errorf("focus search box: %w", err)
	}
	if err := box.Clear(ctx); err != nil {
		return fmt.Errorf("clear search box: %w", err)
	}
	if err := box.Type(ctx, task.SearchQuery, r.cfg.TypeDelay); err != nil {
		return fmt.Errorf("type query: %w", err)
	}
	if err := box.PressEnter(ctx); err != nil {
		return fmt.Errorf("submit query: %w", err)
	}

	return sleep(ctx, r.cfg.SettleDelay)
}
