// Package mocks holds in-memory stand-ins for the browser ports.
package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"agent-daemon/internal/application/port/output"
)

var (
	_ output.BrowserEngine = (*Engine)(nil)
	_ output.Browser       = (*Browser)(nil)
	_ output.PagePort      = (*Page)(nil)
	_ output.ElementPort   = (*Element)(nil)
)

type Engine struct {
	mu        sync.Mutex
	LaunchErr error
	PageErr   error
	// NewPageFn builds the page handed out by each launched browser.
	NewPageFn func() *Page
	Browsers  []*Browser
}

func (e *Engine) Launch(ctx context.Context) (output.Browser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.LaunchErr != nil {
		return nil, e.LaunchErr
	}
	b := &Browser{engine: e}
	e.Browsers = append(e.Browsers, b)
	return b, nil
}

func (e *Engine) Launched() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Browsers)
}

type Browser struct {
	engine *Engine
	mu     sync.Mutex
	Pages  []*Page
	Closed bool
}

func (b *Browser) NewPage(ctx context.Context) (output.PagePort, error) {
	if b.engine.PageErr != nil {
		return nil, b.engine.PageErr
	}
	p := NewPage()
	if b.engine.NewPageFn != nil {
		p = b.engine.NewPageFn()
	}
	b.mu.Lock()
	b.Pages = append(b.Pages, p)
	b.mu.Unlock()
	return p, nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Closed = true
	return nil
}

func (b *Browser) IsClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Closed
}

type WaitCall struct {
	Selector string
	Timeout  time.Duration
}

// Page is a scriptable page. Elements maps selectors to elements; only
// visible ones are returned by FindVisible. Redirects rewrite the URL a
// navigation lands on.
type Page struct {
	mu sync.Mutex

	ProbeErr    error
	NavigateErr error
	Redirects   map[string]string
	Elements    map[string]*Element
	WaitErrs    map[string]error

	current     string
	Navigations []string
	FindCalls   [][]string
	Waits       []WaitCall
	Screenshots []string
}

func NewPage() *Page {
	return &Page{
		Redirects: map[string]string{},
		Elements:  map[string]*Element{},
		WaitErrs:  map[string]error{},
	}
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Navigations = append(p.Navigations, url)
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	if to, ok := p.Redirects[url]; ok {
		url = to
	}
	p.current = url
	return nil
}

func (p *Page) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = url
}

func (p *Page) URL() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, nil
}

func (p *Page) Probe(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ProbeErr
}

func (p *Page) SetProbeErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ProbeErr = err
}

func (p *Page) AddElement(selector string, el *Element) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Elements[selector] = el
	return el
}

func (p *Page) FindVisible(ctx context.Context, selectors []string, perSelector time.Duration) (output.ElementPort, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.FindCalls = append(p.FindCalls, append([]string(nil), selectors...))
	for _, sel := range selectors {
		if el, ok := p.Elements[sel]; ok && el.Visible {
			return el, sel, nil
		}
	}
	return nil, "", output.ErrElementNotFound
}

func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Waits = append(p.Waits, WaitCall{Selector: selector, Timeout: timeout})
	if err := p.WaitErrs[selector]; err != nil {
		return err
	}
	if _, ok := p.Elements[selector]; ok {
		return nil
	}
	return output.ErrElementNotFound
}

func (p *Page) Screenshot(ctx context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Screenshots = append(p.Screenshots, path)
	return nil
}

type Element struct {
	mu       sync.Mutex
	Visible  bool
	ClickErr error
	// OnEnter runs when Enter is pressed, e.g. to make results appear.
	OnEnter func()

	Clicks   int
	Clears   int
	Typed    string
	Delay    time.Duration
	Enters   int
	Scrolled int
}

func Visible() *Element {
	return &Element{Visible: true}
}

func (e *Element) Click(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	return nil
}

func (e *Element) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Clears++
	e.Typed = ""
	return nil
}

func (e *Element) Type(ctx context.Context, text string, delay time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Typed += text
	e.Delay = delay
	return nil
}

func (e *Element) PressEnter(ctx context.Context) error {
	e.mu.Lock()
	e.Enters++
	hook := e.OnEnter
	e.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Scrolled++
	return nil
}

var ErrDead = errors.New("target closed")
