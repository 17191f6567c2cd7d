package di

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"agent-daemon/internal/adapter/httpapi"
	"agent-daemon/internal/application/port/input"
	"agent-daemon/internal/application/port/output"
	"agent-daemon/internal/application/service"
	"agent-daemon/internal/infrastructure/background"
	"agent-daemon/internal/infrastructure/browser/rod"
	"agent-daemon/internal/infrastructure/logger"
	"agent-daemon/internal/infrastructure/metrics"
	"agent-daemon/internal/infrastructure/userinteraction"
	"agent-daemon/internal/usecase/automation"
	"agent-daemon/internal/usecase/executor"
	"agent-daemon/internal/usecase/parser"
)

type Container struct {
	Addr       string
	Logger     output.LoggerPort
	Notifier   output.UserNotifierPort
	Sites      *service.SiteRegistry
	Session    *service.BrowserSession
	Spawner    *background.Spawner
	Dispatcher input.TaskDispatcher
	Server     *httpapi.Server
}

type Config struct {
	Host string
	Port int

	Browser    rod.Config
	Automation automation.Config
	Log        logger.Config
}

// LoadConfig reads the daemon settings, falling back to the package defaults
// for anything unset.
func LoadConfig(env output.ConfigPort) Config {
	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = env.GetBool("BROWSER_HEADLESS", browserCfg.Headless)
	browserCfg.Bin = env.Get("BROWSER_BIN")
	browserCfg.UserAgent = env.GetWithDefault("BROWSER_USER_AGENT", browserCfg.UserAgent)
	browserCfg.NoSandbox = env.GetBool("BROWSER_NO_SANDBOX", browserCfg.NoSandbox)
	browserCfg.SlowMotion = env.GetDuration("BROWSER_SLOW_MOTION", browserCfg.SlowMotion)

	autoCfg := automation.DefaultConfig()
	autoCfg.GoogleHomeURL = env.GetWithDefault("GOOGLE_HOME_URL", autoCfg.GoogleHomeURL)
	autoCfg.ResultsTimeout = env.GetDuration("RESULTS_TIMEOUT", autoCfg.ResultsTimeout)
	autoCfg.SearchBoxTimeout = env.GetDuration("SEARCH_BOX_TIMEOUT", autoCfg.SearchBoxTimeout)
	autoCfg.ResultSelectorTimeout = env.GetDuration("RESULT_SELECTOR_TIMEOUT", autoCfg.ResultSelectorTimeout)
	autoCfg.SettleDelay = env.GetDuration("SETTLE_DELAY", autoCfg.SettleDelay)
	autoCfg.TypeDelay = env.GetDuration("TYPE_DELAY", autoCfg.TypeDelay)
	autoCfg.DebugScreenshotPath = env.GetWithDefault("DEBUG_SCREENSHOT_PATH", autoCfg.DebugScreenshotPath)

	logCfg := logger.DefaultConfig()
	logCfg.Level = env.GetWithDefault("LOG_LEVEL", logCfg.Level)
	logCfg.File = env.GetWithDefault("LOG_FILE", logCfg.File)

	return Config{
		Host:       env.GetWithDefault("AGENT_HOST", "127.0.0.1"),
		Port:       env.GetInt("AGENT_PORT", 4823),
		Browser:    browserCfg,
		Automation: autoCfg,
		Log:        logCfg,
	}
}

// NewContainer wires the daemon. ctx is the process lifetime: background
// automation runs on it rather than on request contexts. No browser is
// started here; the session launches one on first use.
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return build(ctx, cfg, log, func() (output.BrowserEngine, error) {
		return rod.NewEngine(cfg.Browser), nil
	}), nil
}

func build(
	ctx context.Context,
	cfg Config,
	log output.LoggerPort,
	newEngine func() (output.BrowserEngine, error),
) *Container {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	sites := service.NewDefaultSiteRegistry()
	notifier := userinteraction.NewConsoleUserInteraction()
	session := service.NewBrowserSession(newEngine, log, collector)
	runner := automation.NewRunner(session, sites, notifier, collector, log, cfg.Automation)
	spawner := background.NewSpawner(ctx, log)
	dispatcher := executor.New(parser.New(sites), runner, spawner, sites, collector, log)
	server := httpapi.NewServer(dispatcher, parser.NeedsBrowser, collector.Handler(), log.WithField("component", "http"))

	return &Container{
		Addr:       net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		Logger:     log,
		Notifier:   notifier,
		Sites:      sites,
		Session:    session,
		Spawner:    spawner,
		Dispatcher: dispatcher,
		Server:     server,
	}
}

func (c *Container) Handler() http.Handler {
	return c.Server.Handler()
}

// Close flushes the logger. The browser is intentionally left running.
func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
