package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/kanban/internal/domain/board"
	"github.com/rpggio/kanban/internal/domain/tag"
	"github.com/rpggio/kanban/internal/drag"
	"github.com/rpggio/kanban/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, board.ErrNoBoardSelected):
		return &APIError{Code: "NO_BOARD_SELECTED", Message: "no board selected", RecoveryHint: "Call select_board first"}
	case errors.Is(err, board.ErrBoardNotFound):
		return &APIError{Code: "BOARD_NOT_FOUND", Message: "board not found", RecoveryHint: "Call list_boards for valid ids"}
	case errors.Is(err, board.ErrListNotFound):
		return &APIError{Code: "LIST_NOT_FOUND", Message: "list not found", RecoveryHint: "Call get_board to refresh list ids"}
	case errors.Is(err, board.ErrItemNotFound):
		return &APIError{Code: "ITEM_NOT_FOUND", Message: "item not found", RecoveryHint: "Call get_board to refresh item ids"}
	case errors.Is(err, tag.ErrTagNotFound):
		return &APIError{Code: "TAG_NOT_FOUND", Message: "tag not found", RecoveryHint: "Call list_tags for valid ids"}
	case errors.Is(err, board.ErrStaleReference):
		return &APIError{Code: "STALE_REFERENCE", Message: "entity moved or was removed", RecoveryHint: "Call get_board and retry"}
	case errors.Is(err, board.ErrInvalidTarget):
		return &APIError{Code: "INVALID_TARGET", Message: "drop target out of range", RecoveryHint: "Use an index within the destination list"}
	case errors.Is(err, drag.ErrBusy):
		return &APIError{Code: "DRAG_IN_PROGRESS", Message: "another move is in progress", RecoveryHint: "Retry shortly"}
	case errors.Is(err, board.ErrInvalidInput), errors.Is(err, tag.ErrInvalidInput), errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check parameters"}
	case errors.Is(err, repository.ErrUnavailable):
		return &APIError{Code: "STORE_UNAVAILABLE", Message: "store unavailable", RecoveryHint: "Retry later"}
	default:
		return nil
	}
}

// invalidParams reports a malformed or incomplete tool argument object.
func invalidParams(format string, args ...any) *APIError {
	return &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf(format, args...), RecoveryHint: "Check parameters"}
}
