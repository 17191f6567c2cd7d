package output

import "context"

// UserNotifierPort tells the human at the machine that the browser needs them.
type UserNotifierPort interface {
	ShowStartup(ctx context.Context, addr string)
	ShowManualIntervention(ctx context.Context, reason, url string)
}
