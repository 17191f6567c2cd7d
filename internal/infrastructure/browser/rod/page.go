package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"agent-daemon/internal/application/port/output"
)

var (
	_ output.PagePort    = (*Page)(nil)
	_ output.ElementPort = (*Element)(nil)
)

const maxScreenshotWidth = 1280

type Page struct {
	page       *rod.Page
	navTimeout time.Duration
}

func newPage(p *rod.Page, navTimeout time.Duration) *Page {
	return &Page{page: p, navTimeout: navTimeout}
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	tp := p.page.Context(ctx).Timeout(p.navTimeout)
	defer tp.CancelTimeout()

	if err := tp.Navigate(url); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	if err := tp.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s to load: %w", url, err)
	}
	return nil
}

func (p *Page) URL() (string, error) {
	info, err := p.page.Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page info: %w", err)
	}
	return info.URL, nil
}

func (p *Page) Probe(ctx context.Context) error {
	res, err := p.page.Context(ctx).Eval(`() => document.readyState`)
	if err != nil {
		return fmt.Errorf("page probe failed: %w", err)
	}
	if res.Value.Str() == "" {
		return errors.New("page probe returned no ready state")
	}
	return nil
}

func (p *Page) FindVisible(ctx context.Context, selectors []string, perSelector time.Duration) (output.ElementPort, string, error) {
	for _, sel := range selectors {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		el, err := p.findOne(ctx, sel, perSelector)
		if err != nil {
			continue
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			continue
		}
		return &Element{el: el}, sel, nil
	}
	return nil, "", fmt.Errorf("no visible element among %d selectors: %w", len(selectors), output.ErrElementNotFound)
}

func (p *Page) findOne(ctx context.Context, sel string, timeout time.Duration) (*rod.Element, error) {
	tp := p.page.Context(ctx).Timeout(timeout)
	defer tp.CancelTimeout()
	el, err := tp.Element(sel)
	if err != nil {
		return nil, err
	}
	// detach from the timeout so later actions are bounded by ctx only
	return el.Context(ctx), nil
}

func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	var err error
	if timeout > 0 {
		_, err = p.findOne(ctx, selector, timeout)
	} else {
		_, err = p.page.Context(ctx).Element(selector)
	}
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	return nil
}

// Screenshot captures the viewport, shrinks wide captures and writes the
// image to path. The format follows the path's extension.
func (p *Page) Screenshot(ctx context.Context, path string) error {
	data, err := p.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatPng,
		Quality: gson.Int(90),
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create screenshot dir: %w", err)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save screenshot: %w", err)
	}
	return nil
}

type Element struct {
	el *rod.Element
}

func (e *Element) Click(ctx context.Context) error {
	if err := e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (e *Element) Clear(ctx context.Context) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text failed: %w", err)
	}
	if err := el.Input(""); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	return nil
}

// Type enters text one rune at a time with delay between keystrokes.
func (e *Element) Type(ctx context.Context, text string, delay time.Duration) error {
	el := e.el.Context(ctx)
	for _, r := range text {
		if err := el.Input(string(r)); err != nil {
			return fmt.Errorf("typing failed: %w", err)
		}
		if delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil
}

func (e *Element) PressEnter(ctx context.Context) error {
	if err := e.el.Context(ctx).Type(input.Enter); err != nil {
		return fmt.Errorf("failed to press Enter: %w", err)
	}
	return nil
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	if err := e.el.Context(ctx).ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return nil
}
