package output

import (
	"context"
	"errors"
	"time"
)

var ErrElementNotFound = errors.New("element not found")

// BrowserEngine launches controllable browsers.
type BrowserEngine interface {
	Launch(ctx context.Context) (Browser, error)
}

type Browser interface {
	NewPage(ctx context.Context) (PagePort, error)
	Close() error
}

type PagePort interface {
	Navigate(ctx context.Context, url string) error
	URL() (string, error)
	// Probe runs a trivial query against the page to check the session is alive.
	Probe(ctx context.Context) error

	// FindVisible tries selectors in order, waiting up to perSelector for each,
	// and returns the first element that is visible.
	FindVisible(ctx context.Context, selectors []string, perSelector time.Duration) (ElementPort, string, error)
	// WaitFor blocks until selector appears. A zero timeout waits until ctx is done.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	Screenshot(ctx context.Context, path string) error
}

type ElementPort interface {
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	Type(ctx context.Context, text string, delay time.Duration) error
	PressEnter(ctx context.Context) error
	ScrollIntoView(ctx context.Context) error
}

// SessionPort hands out the shared browser page.
type SessionPort interface {
	Acquire(ctx context.Context) (Browser, PagePort, error)
}
