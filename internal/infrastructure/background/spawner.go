package background

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"agent-daemon/internal/application/port/output"
)

var _ output.SpawnerPort = (*Spawner)(nil)

// Spawner runs fire-and-forget work on a context that outlives the HTTP
// request which scheduled it. The scheduling side gets no handle back.
type Spawner struct {
	ctx    context.Context
	logger output.LoggerPort
	wg     sync.WaitGroup
}

func NewSpawner(ctx context.Context, logger output.LoggerPort) *Spawner {
	return &Spawner{ctx: ctx, logger: logger}
}

func (s *Spawner) Spawn(name string, fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Background task panicked",
					"task", name,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()),
				)
			}
		}()

		s.logger.Debug("Background task started", "task", name)
		fn(s.ctx)
		s.logger.Debug("Background task finished", "task", name)
	}()
}

// Wait blocks until every spawned task has returned. Only shutdown paths
// and tests call it.
func (s *Spawner) Wait() {
	s.wg.Wait()
}
