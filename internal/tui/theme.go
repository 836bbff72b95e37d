package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
)

// Tile colors follow the PNG board tiles.
var (
	ColorHidden   = lipgloss.Color("#334155")
	ColorRevealed = lipgloss.Color("#e2e8f0")
	ColorCorrect  = lipgloss.Color("#16a34a")
	ColorWrong    = lipgloss.Color("#dc2626")
	ColorEmpty    = lipgloss.Color("#1e293b")
	ColorCursor   = lipgloss.Color("#f59e0b")
)

// UI chrome colors.
var (
	ColorTitle  = lipgloss.Color("#f9fafb")
	ColorDimmed = lipgloss.Color("#6b7280")
	ColorInfo   = lipgloss.Color("#38bdf8")
	ColorBorder = lipgloss.Color("#4b5563")
)

const cellWidth = 5

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(ColorTitle)
	styleDimmed = lipgloss.NewStyle().Foreground(ColorDimmed)
	styleBoard  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder).Padding(0, 1)

	styleCell = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
)

func cellStyle(c puzzle.CellView, cursor bool) lipgloss.Style {
	st := styleCell
	switch {
	case !c.Revealed:
		st = st.Background(ColorHidden).Foreground(ColorDimmed)
	case c.Empty:
		st = st.Background(ColorEmpty)
	case c.Mark == puzzle.MarkCorrect:
		st = st.Background(ColorCorrect).Foreground(ColorTitle).Bold(true)
	case c.Mark == puzzle.MarkWrong:
		st = st.Background(ColorWrong).Foreground(ColorTitle).Bold(true)
	default:
		st = st.Background(ColorRevealed).Foreground(lipgloss.Color("#0f172a")).Bold(true)
	}
	if cursor {
		st = st.Underline(true).Foreground(ColorCursor)
	}
	return st
}

func messageStyle(kind puzzle.MessageKind) lipgloss.Style {
	switch kind {
	case puzzle.MessageError:
		return lipgloss.NewStyle().Foreground(ColorWrong).Bold(true)
	case puzzle.MessageSuccess:
		return lipgloss.NewStyle().Foreground(ColorCorrect).Bold(true)
	default:
		return styleDimmed
	}
}

func phaseStyle(p puzzle.Phase) lipgloss.Style {
	switch p {
	case puzzle.PhaseActive:
		return lipgloss.NewStyle().Foreground(ColorInfo)
	case puzzle.PhaseWon:
		return lipgloss.NewStyle().Foreground(ColorCorrect).Bold(true)
	case puzzle.PhaseFailed:
		return lipgloss.NewStyle().Foreground(ColorWrong).Bold(true)
	default:
		return styleDimmed
	}
}
