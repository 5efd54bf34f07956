package tag

import (
	"context"

	"github.com/rpggio/kanban/internal/domain/activity"
)

// ActivityRepository logs tag activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
