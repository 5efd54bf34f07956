package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rpggio/kanban/internal/domain/board"
	"github.com/stretchr/testify/require"
)

func TestPrintBoards(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	printBoards(&buf, nil)
	require.Equal(t, "No boards found\n", buf.String())

	buf.Reset()
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	printBoards(&buf, []board.Board{
		{ID: "b1", Title: "Sprint", Created: created},
		{ID: "b2", Title: "Old", Archived: true, Created: created},
		{ID: "b3", Created: created},
	})
	require.Equal(t, "● b1  Sprint  2026-03-01\n◌ b2  Old  2026-03-01\n● b3  (Unnamed Board)  2026-03-01\n", buf.String())
}

func TestPrintSnapshot(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	printSnapshot(&buf, board.Snapshot{
		Board: board.Board{Title: "Sprint"},
		Lists: []board.ListView{
			{List: board.List{Title: "Todo", Order: 0}, Items: []board.Item{{Title: "write", Order: 0}}},
			{List: board.List{Title: "Done", Order: 1}, Items: []board.Item{}},
		},
	})
	require.Equal(t, "Sprint\n\n[0] Todo\n    0. write\n\n[1] Done\n    (empty)\n", buf.String())
}
