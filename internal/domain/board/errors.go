package board

import "errors"

var (
	// ErrBoardNotFound indicates the board doesn't exist.
	ErrBoardNotFound = errors.New("board not found")
	// ErrListNotFound indicates the list doesn't exist or is not on the selected board.
	ErrListNotFound = errors.New("list not found")
	// ErrItemNotFound indicates the item doesn't exist or is not on the selected board.
	ErrItemNotFound = errors.New("item not found")
	// ErrNoBoardSelected indicates an operation needs a selected board.
	ErrNoBoardSelected = errors.New("no board selected")
	// ErrStaleReference indicates a reorder refers to an entity that moved, was archived or was deleted.
	ErrStaleReference = errors.New("stale reference")
	// ErrInvalidTarget indicates a reorder destination outside the sibling sequence.
	ErrInvalidTarget = errors.New("invalid drop target")
	// ErrInvalidInput indicates invalid input for board operations.
	ErrInvalidInput = errors.New("invalid board input")
)
