package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"agent-daemon/internal/application/port/output"
)

var (
	_ output.BrowserEngine = (*Engine)(nil)
	_ output.Browser       = (*Browser)(nil)
)

const (
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	defaultNavTimeout = 30 * time.Second
)

// hideWebdriver runs before any page script on every new document.
const hideWebdriver = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
window.chrome = window.chrome || { runtime: {} };
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });`

type Config struct {
	Headless   bool
	Bin        string
	UserAgent  string
	NoSandbox  bool
	SlowMotion time.Duration
	// NavTimeout bounds a single navigation including the load event.
	NavTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Headless:   false,
		UserAgent:  defaultUserAgent,
		NavTimeout: defaultNavTimeout,
	}
}

// Engine launches a local Chromium through the rod launcher.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = defaultNavTimeout
	}
	return &Engine{cfg: cfg}
}

// Launch starts a browser process. The process is not tied to ctx and is
// launched without leakless, so it keeps running after the daemon exits.
func (e *Engine) Launch(ctx context.Context) (output.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := launcher.New().
		Headless(e.cfg.Headless).
		NoSandbox(e.cfg.NoSandbox).
		Set("disable-blink-features", "AutomationControlled").
		Delete("enable-automation").
		Set("window-size", "1366,900").
		Leakless(false)
	if e.cfg.Bin != "" {
		l = l.Bin(e.cfg.Bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if e.cfg.SlowMotion > 0 {
		b = b.SlowMotion(e.cfg.SlowMotion)
	}
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{browser: b, launcher: l, cfg: e.cfg}, nil
}

type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      Config

	closeOnce sync.Once
}

// NewPage opens a stealth page with the webdriver flag hidden and the
// configured desktop user agent.
func (b *Browser) NewPage(ctx context.Context) (output.PagePort, error) {
	p, err := stealth.Page(b.browser)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	if _, err := p.EvalOnNewDocument(hideWebdriver); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to register init script: %w", err)
	}
	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      b.cfg.UserAgent,
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to set user agent: %w", err)
	}
	return newPage(p, b.cfg.NavTimeout), nil
}

func (b *Browser) Close() error {
	var err error
	b.closeOnce.Do(func() {
		if b.browser != nil {
			err = b.browser.Close()
		}
		if b.launcher != nil {
			b.launcher.Kill()
		}
	})
	return err
}
