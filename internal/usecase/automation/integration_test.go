package automation_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent-daemon/internal/application/port/output"
	"agent-daemon/internal/application/service"
	"agent-daemon/internal/domain/entity"
	"agent-daemon/internal/infrastructure/browser/rod"
	"agent-daemon/internal/infrastructure/logger"
	"agent-daemon/internal/infrastructure/userinteraction"
	"agent-daemon/internal/usecase/automation"
)

const (
	homeHTML = `<!DOCTYPE html>
<html><body>
	<form action="/search" method="get"><textarea name="q"></textarea></form>
</body></html>`

	resultsHTML = `<!DOCTYPE html>
<html><body>
	<div id="search"><a href="/landing"><h3>First result</h3></a></div>
</body></html>`

	shopHTML = `<!DOCTYPE html>
<html><body>
	<form action="/shop/search" method="get"><input id="q" name="q" type="text" /></form>
</body></html>`
)

// fakeWeb serves a minimal search engine and shop, and records queries.
type fakeWeb struct {
	mu      sync.Mutex
	queries []string
	landed  bool
}

func (f *fakeWeb) handler() http.Handler {
	page := func(html string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, html)
		}
	}
	record := func(html string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.queries = append(f.queries, r.URL.Query().Get("q"))
			f.mu.Unlock()
			page(html)(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", page(homeHTML))
	mux.HandleFunc("/sorry/index", page(homeHTML))
	mux.HandleFunc("/search", record(resultsHTML))
	mux.HandleFunc("/shop", page(shopHTML))
	mux.HandleFunc("/shop/search", record(resultsHTML))
	mux.HandleFunc("/landing", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.landed = true
		f.mu.Unlock()
		page(`<html><body>landing</body></html>`)(w, r)
	})
	return mux
}

func (f *fakeWeb) snapshot() ([]string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...), f.landed
}

func newBrowserRunner(t *testing.T, home string, sites *service.SiteRegistry) *automation.Runner {
	t.Helper()
	if testing.Short() {
		t.Skip("launches a real browser")
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = true
	browserCfg.NoSandbox = true
	browserCfg.NavTimeout = 10 * time.Second
	engine := rod.NewEngine(browserCfg)

	var launched output.Browser
	session := service.NewBrowserSession(func() (output.BrowserEngine, error) {
		return closingEngine{Engine: engine, keep: &launched}, nil
	}, logger.NewNop(), nil)
	t.Cleanup(func() {
		if launched != nil {
			_ = launched.Close()
		}
	})

	cfg := automation.DefaultConfig()
	cfg.GoogleHomeURL = home
	cfg.ResultsTimeout = 10 * time.Second
	cfg.SettleDelay = 200 * time.Millisecond
	cfg.TypeDelay = 5 * time.Millisecond
	cfg.DebugScreenshotPath = t.TempDir() + "/debug_screenshot.png"

	return automation.NewRunner(session, sites, userinteraction.NewWriterUserInteraction(io.Discard), nil, logger.NewNop(), cfg)
}

// closingEngine remembers the launched browser so the test can stop it;
// the daemon itself never closes it.
type closingEngine struct {
	*rod.Engine
	keep *output.Browser
}

func (e closingEngine) Launch(ctx context.Context) (output.Browser, error) {
	b, err := e.Engine.Launch(ctx)
	if err == nil {
		*e.keep = b
	}
	return b, err
}

func TestIntegration_GoogleSearchAndClickFirstResult(t *testing.T) {
	web := &fakeWeb{}
	srv := httptest.NewServer(web.handler())
	defer srv.Close()

	runner := newBrowserRunner(t, srv.URL+"/", service.NewDefaultSiteRegistry())

	out := runner.Run(context.Background(), entity.TaskDescriptor{
		RequiresBrowser: true,
		Website:         entity.DefaultSite,
		SearchQuery:     "noise cancelling headphones",
		TaskType:        entity.TaskTypeGeneralBrowse,
		Actions:         []entity.ActionTag{entity.ActionClickFirstResult},
	})

	require.NoError(t, out.Err)
	assert.Equal(t, entity.StateDone, out.State)
	assert.Eventually(t, func() bool {
		_, landed := web.snapshot()
		return landed
	}, 5*time.Second, 50*time.Millisecond)

	queries, _ := web.snapshot()
	assert.Equal(t, []string{"noise cancelling headphones"}, queries)
}

func TestIntegration_CaptchaLeavesBrowserForHuman(t *testing.T) {
	web := &fakeWeb{}
	srv := httptest.NewServer(web.handler())
	defer srv.Close()

	runner := newBrowserRunner(t, srv.URL+"/sorry/index", service.NewDefaultSiteRegistry())

	out := runner.Run(context.Background(), entity.TaskDescriptor{
		Website:     entity.DefaultSite,
		SearchQuery: "tea",
	})

	assert.Equal(t, entity.StateAbortedCaptcha, out.State)
	assert.ErrorIs(t, out.Err, automation.ErrCaptcha)
	queries, _ := web.snapshot()
	assert.Empty(t, queries)
}

func TestIntegration_SiteSearch(t *testing.T) {
	web := &fakeWeb{}
	srv := httptest.NewServer(web.handler())
	defer srv.Close()

	sites := service.NewDefaultSiteRegistry()
	sites.Register(entity.Site{
		ID:              "shop.test",
		Name:            "Test Shop",
		BaseURL:         srv.URL + "/shop",
		Keywords:        []string{"test shop"},
		SearchSelectors: []string{"#q"},
	})
	runner := newBrowserRunner(t, srv.URL+"/", sites)

	out := runner.Run(context.Background(), entity.TaskDescriptor{
		Website:     "shop.test",
		SearchQuery: "laptops",
		TaskType:    entity.TaskTypeShopping,
	})

	require.NoError(t, out.Err)
	assert.Equal(t, entity.StateDone, out.State)
	assert.Eventually(t, func() bool {
		queries, _ := web.snapshot()
		return len(queries) == 1 && queries[0] == "laptops"
	}, 5*time.Second, 50*time.Millisecond)
}
