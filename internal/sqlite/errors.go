package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/kanban/internal/repository"
)

func isUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "unable to open database")
}

// wrapErr annotates err and marks connection-level failures as unavailable.
func wrapErr(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("failed to %s: %w: %v", op, repository.ErrUnavailable, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
