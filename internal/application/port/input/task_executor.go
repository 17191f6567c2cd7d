package input

import (
	"context"

	"agent-daemon/internal/domain/entity"
)

type TaskDispatcher interface {
	Dispatch(ctx context.Context, task string, useBrowser bool) entity.DispatchResult
}
