package puzzle

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	// WrongMarkDelay is how long the wrong-cell mark stays before it is cleared.
	WrongMarkDelay = 500 * time.Millisecond
	// DecoyDelay is how long the decoy taunt stays on screen.
	DecoyDelay = 2000 * time.Millisecond

	level2Size        = 4
	level2NumberCount = 8
)

var (
	ErrUnsupportedSize  = errors.New("unsupported grid size")
	ErrFixedSize        = errors.New("grid size is fixed for this level")
	ErrDecoyUnavailable = errors.New("decoy is only available in level 2")
	ErrInvalidMode      = errors.New("invalid puzzle mode")
)

// Level1Sizes lists the grid sizes offered by the full-grid level.
var Level1Sizes = []int{3, 4, 5}

type Level int

const (
	Level1 Level = 1
	Level2 Level = 2
)

func (l Level) String() string {
	switch l {
	case Level1:
		return "level1"
	case Level2:
		return "level2"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Mode parameterizes both levels with one generator and one controller.
type Mode struct {
	Level       Level
	Size        int
	NumberCount int
	FullGrid    bool
}

// FullGridMode builds a level 1 mode for the given size.
func FullGridMode(size int) Mode {
	return Mode{Level: Level1, Size: size, NumberCount: size * size, FullGrid: true}
}

// PartialMode builds the fixed 4x4 level 2 mode with eight numbered cells.
func PartialMode() Mode {
	return Mode{Level: Level2, Size: level2Size, NumberCount: level2NumberCount, FullGrid: false}
}

// ModeFor returns the mode for a level; size is ignored for level 2.
func ModeFor(level Level, size int) (Mode, error) {
	switch level {
	case Level1:
		m := FullGridMode(size)
		if err := m.Validate(); err != nil {
			return Mode{}, err
		}
		return m, nil
	case Level2:
		return PartialMode(), nil
	default:
		return Mode{}, fmt.Errorf("%w: level %d", ErrInvalidMode, int(level))
	}
}

func (m Mode) Cells() int { return m.Size * m.Size }

// HasDecoy reports whether the fake next-level control exists in this mode.
func (m Mode) HasDecoy() bool { return !m.FullGrid }

func (m Mode) Validate() error {
	if m.Size <= 0 {
		return fmt.Errorf("%w: size %d", ErrInvalidMode, m.Size)
	}
	if m.NumberCount <= 0 || m.NumberCount > m.Cells() {
		return fmt.Errorf("%w: %d numbers on %dx%d", ErrInvalidMode, m.NumberCount, m.Size, m.Size)
	}
	if m.FullGrid && m.NumberCount != m.Cells() {
		return fmt.Errorf("%w: full grid needs %d numbers", ErrInvalidMode, m.Cells())
	}
	if m.Level == Level1 && !slices.Contains(Level1Sizes, m.Size) {
		return fmt.Errorf("%w: %d", ErrUnsupportedSize, m.Size)
	}
	return nil
}
