package userinteraction

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"agent-daemon/internal/application/port/output"
)

var _ output.UserNotifierPort = (*ConsoleUserInteraction)(nil)

// ConsoleUserInteraction prints notices for the person sitting at the
// machine that runs the daemon and its browser window.
type ConsoleUserInteraction struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleUserInteraction() *ConsoleUserInteraction {
	return NewWriterUserInteraction(os.Stdout)
}

func NewWriterUserInteraction(w io.Writer) *ConsoleUserInteraction {
	return &ConsoleUserInteraction{out: w}
}

func (u *ConsoleUserInteraction) ShowStartup(ctx context.Context, addr string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(u.out, "\n━━━ agent-daemon ━━━\n")

	dim := color.New(color.Faint)
	dim.Fprintf(u.out, "   listening on http://%s\n", addr)
	dim.Fprintf(u.out, "   POST /agent/run  ·  WS /ws  ·  GET /health\n")
}

func (u *ConsoleUserInteraction) ShowManualIntervention(ctx context.Context, reason, url string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(u.out, "\n[USER ACTION REQUIRED] %s\n", reason)

	dim := color.New(color.Faint)
	if url != "" {
		dim.Fprintf(u.out, "   page: %s\n", truncate(url, 120))
	}
	dim.Fprintln(u.out, "   The browser window stays open, finish the task there.")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
