package di

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"agent-daemon/internal/application/port/output"
	"agent-daemon/internal/infrastructure/env"
	"agent-daemon/internal/infrastructure/logger"
	"agent-daemon/internal/mocks"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"AGENT_HOST", "AGENT_PORT", "RESULTS_TIMEOUT", "BROWSER_HEADLESS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig(&env.EnvService{})

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 4823, cfg.Port)
	assert.False(t, cfg.Browser.Headless)
	assert.Zero(t, cfg.Automation.ResultsTimeout, "results wait is unbounded unless configured")
	assert.Equal(t, 5*time.Second, cfg.Automation.SearchBoxTimeout)
	assert.Equal(t, "debug_screenshot.png", cfg.Automation.DebugScreenshotPath)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("AGENT_HOST", "0.0.0.0")
	t.Setenv("AGENT_PORT", "9000")
	t.Setenv("BROWSER_HEADLESS", "true")
	t.Setenv("RESULTS_TIMEOUT", "20s")
	t.Setenv("TYPE_DELAY", "5")
	t.Setenv("GOOGLE_HOME_URL", "http://localhost:1234")

	cfg := LoadConfig(&env.EnvService{})

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 20*time.Second, cfg.Automation.ResultsTimeout)
	assert.Equal(t, 5*time.Millisecond, cfg.Automation.TypeDelay)
	assert.Equal(t, "http://localhost:1234", cfg.Automation.GoogleHomeURL)
}

func fastConfig() Config {
	cfg := Config{Host: "127.0.0.1", Port: 4823}
	cfg.Automation.GoogleHomeURL = "https://www.google.com"
	cfg.Automation.DebugScreenshotPath = "debug_screenshot.png"
	return cfg
}

func TestContainer_EndToEndWithFakeBrowser(t *testing.T) {
	engine := &mocks.Engine{}
	c := build(context.Background(), fastConfig(), logger.NewNop(), func() (output.BrowserEngine, error) {
		return engine, nil
	})
	defer c.Close()

	assert.Equal(t, "127.0.0.1:4823", c.Addr)
	assert.Zero(t, engine.Launched(), "no browser before the first task")

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/agent/run", "application/json",
		strings.NewReader(`{"task":"search for headphones","use_browser":true}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body["status"])
	result := body["result"].(map[string]any)
	assert.Equal(t, "https://google.com/search?q=headphones", result["url"])
	assert.Equal(t, "search_only", result["action"])

	c.Spawner.Wait()
	assert.Equal(t, 1, engine.Launched())
	assert.Equal(t, 1, c.Session.Launches())

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
}

func TestContainer_LLMDeferralStartsNoBrowser(t *testing.T) {
	engine := &mocks.Engine{}
	c := build(context.Background(), fastConfig(), logger.NewNop(), func() (output.BrowserEngine, error) {
		return engine, nil
	})

	res := c.Dispatcher.Dispatch(context.Background(), "What is the capital of France?", false)
	c.Spawner.Wait()

	assert.Equal(t, "llm_response", string(res.Status))
	assert.Zero(t, engine.Launched())
}

func TestContainer_ComponentFieldAppearsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	engine := &mocks.Engine{}
	c := build(context.Background(), fastConfig(), logger.NewFromZap(zap.New(core)), func() (output.BrowserEngine, error) {
		return engine, nil
	})

	c.Dispatcher.Dispatch(context.Background(), "search for headphones", true)
	c.Spawner.Wait()

	seen := map[string]bool{}
	for _, entry := range logs.All() {
		count := 0
		for _, f := range entry.Context {
			if f.Key == "component" {
				count++
				seen[f.String] = true
			}
		}
		assert.LessOrEqual(t, count, 1, "duplicate component field on %q", entry.Message)
	}
	assert.True(t, seen["automation"], "automation logs are tagged")
	assert.True(t, seen["session"], "session logs are tagged")
}
