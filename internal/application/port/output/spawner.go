package output

import "context"

// SpawnerPort starts detached work. Callers never observe completion.
type SpawnerPort interface {
	Spawn(name string, fn func(ctx context.Context))
}
