package puzzle

import (
	"math/rand/v2"
	"slices"
)

// Rand is the integer source used for shuffling. IntN must be uniform on [0,n).
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the math/rand/v2 global source.
func DefaultRand() Rand { return globalRand{} }

// SeededRand returns a deterministic source, mainly for tests and replays.
func SeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Board is the grid in reading order. A zero entry is an empty cell.
type Board struct {
	Size  int
	Cells []int
}

func (b Board) Len() int { return len(b.Cells) }

// Number returns the number at index i; ok is false for empty or out-of-range cells.
func (b Board) Number(i int) (int, bool) {
	if i < 0 || i >= len(b.Cells) {
		return 0, false
	}
	n := b.Cells[i]
	return n, n != 0
}

// IndexOf returns the cell index holding n, or -1.
func (b Board) IndexOf(n int) int {
	if n == 0 {
		return -1
	}
	return slices.Index(b.Cells, n)
}

// Numbers returns the numbered cells in board order.
func (b Board) Numbers() []int {
	out := make([]int, 0, len(b.Cells))
	for _, n := range b.Cells {
		if n != 0 {
			out = append(out, n)
		}
	}
	return out
}

func (b Board) Clone() Board {
	return Board{Size: b.Size, Cells: slices.Clone(b.Cells)}
}

// Generate builds a board and its ascending target sequence for the mode.
// The mode must be valid; callers taking user input check Mode.Validate first.
func Generate(mode Mode, rng Rand) (Board, []int) {
	if rng == nil {
		rng = DefaultRand()
	}
	total := mode.Cells()

	numbers := identity(total, 1)
	shuffle(numbers, rng)
	selected := numbers[:mode.NumberCount]

	target := slices.Clone(selected)
	slices.Sort(target)

	if mode.NumberCount == total {
		return Board{Size: mode.Size, Cells: numbers}, target
	}

	// 부분 배치: 위치도 따로 섞어서 앞쪽 numberCount 칸에만 숫자를 둔다.
	positions := identity(total, 0)
	shuffle(positions, rng)
	cells := make([]int, total)
	for i, n := range selected {
		cells[positions[i]] = n
	}
	return Board{Size: mode.Size, Cells: cells}, target
}

func identity(n, start int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// shuffle is a Fisher-Yates pass from the last index down to 1.
func shuffle(a []int, rng Rand) {
	for i := len(a) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		a[i], a[j] = a[j], a[i]
	}
}
