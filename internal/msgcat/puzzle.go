package msgcat

import "github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"

// PuzzleMessages serves the in-game texts from the catalog and falls back
// to the built-in texts per key.
type PuzzleMessages struct {
	Catalog  *Catalog
	fallback puzzle.DefaultMessages
}

var _ puzzle.Messages = PuzzleMessages{}

func NewPuzzleMessages(c *Catalog) PuzzleMessages {
	return PuzzleMessages{Catalog: c}
}

func (m PuzzleMessages) NotStarted() string {
	return m.Catalog.Text("puzzle.not_started", nil, m.fallback.NotStarted())
}

func (m PuzzleMessages) Wrong(expected int) string {
	return m.Catalog.Text("puzzle.wrong", map[string]any{"Expected": expected}, m.fallback.Wrong(expected))
}

func (m PuzzleMessages) Win() string {
	return m.Catalog.Text("puzzle.win", nil, m.fallback.Win())
}

func (m PuzzleMessages) Decoy() string {
	return m.Catalog.Text("puzzle.decoy", nil, m.fallback.Decoy())
}
