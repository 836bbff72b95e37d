package puzzle

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseIdle   Phase = "idle"
	PhaseActive Phase = "active"
	PhaseWon    Phase = "won"
	PhaseFailed Phase = "failed"
)

type CellMark string

const (
	MarkNone    CellMark = "none"
	MarkCorrect CellMark = "correct"
	MarkWrong   CellMark = "wrong"
)

type cellState struct {
	revealed bool
	mark     CellMark
}

// Config wires a Session. Zero-valued collaborators get defaults.
type Config struct {
	Mode      Mode
	Rand      Rand
	View      View
	Scheduler Scheduler
	Messages  Messages
}

// Session is one puzzle instance: board, target sequence and round progress.
// It is safe for concurrent use; delayed tasks take the same lock.
type Session struct {
	mu sync.Mutex

	id      string
	boardID string
	mode    Mode
	rng     Rand
	view    View
	sched   Scheduler
	msgs    Messages

	board    Board
	target   []int
	cells    []cellState
	started  bool
	progress int
	phase    Phase
	message  Message
	round    int

	// epoch changes whenever the board is regenerated or a round starts;
	// delayed clears from an older epoch do nothing.
	epoch uint64
}

func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Mode.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		id:    uuid.NewString(),
		mode:  cfg.Mode,
		rng:   cfg.Rand,
		view:  cfg.View,
		sched: cfg.Scheduler,
		msgs:  cfg.Messages,
	}
	if s.rng == nil {
		s.rng = DefaultRand()
	}
	if s.view == nil {
		s.view = NopView{}
	}
	if s.sched == nil {
		s.sched = RealScheduler{}
	}
	if s.msgs == nil {
		s.msgs = DefaultMessages{}
	}

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Start hides every number and begins a round. It is a no-op while a round is
// active and is refused after a win until Reset is called.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseActive:
		return nil
	case PhaseWon:
		return ErrRoundOver
	}

	s.started = true
	s.progress = 0
	s.phase = PhaseActive
	s.round++
	s.epoch++
	for i := range s.cells {
		s.cells[i] = cellState{revealed: false, mark: MarkNone}
	}
	s.message = Message{Kind: MessageNone}
	s.view.HideAll()
	s.view.ClearMessage()
	return nil
}

// HandleClick validates a click on cell index i against the target sequence.
func (s *Session) HandleClick(i int) ClickOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.cells) {
		return ClickOutcome{Kind: OutcomeRejected, Index: i, Progress: s.progress, Reason: ReasonNoCell}
	}
	n, ok := s.board.Number(i)
	if !ok {
		return ClickOutcome{Kind: OutcomeIgnored, Index: i, Progress: s.progress, Reason: ReasonEmptyCell}
	}
	if s.cells[i].mark == MarkCorrect {
		return ClickOutcome{Kind: OutcomeIgnored, Index: i, Number: n, Progress: s.progress, Reason: ReasonAlreadyCorrect}
	}
	if !s.started {
		s.showMessageLocked(s.msgs.NotStarted(), MessageError)
		return ClickOutcome{Kind: OutcomeRejected, Index: i, Number: n, Progress: s.progress, Reason: ReasonNotStarted}
	}

	expected := s.target[s.progress]
	if n == expected {
		s.cells[i] = cellState{revealed: true, mark: MarkCorrect}
		s.progress++
		s.view.RevealCell(i)
		s.view.MarkCorrect(i)
		if s.progress == len(s.target) {
			s.started = false
			s.phase = PhaseWon
			s.showMessageLocked(s.msgs.Win(), MessageSuccess)
			return ClickOutcome{Kind: OutcomeWin, Index: i, Number: n, Progress: s.progress}
		}
		return ClickOutcome{Kind: OutcomeAdvance, Index: i, Number: n, Progress: s.progress}
	}

	for j := range s.cells {
		s.cells[j].revealed = true
	}
	s.cells[i].mark = MarkWrong
	s.started = false
	s.phase = PhaseFailed
	s.view.RevealAll()
	s.view.MarkWrong(i)
	s.showMessageLocked(s.msgs.Wrong(expected), MessageError)

	epoch := s.epoch
	s.sched.AfterFunc(WrongMarkDelay, func() { s.clearWrongMark(i, epoch) })

	return ClickOutcome{Kind: OutcomeFail, Index: i, Number: n, Progress: s.progress, Expected: expected}
}

func (s *Session) clearWrongMark(i int, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || i >= len(s.cells) || s.cells[i].mark != MarkWrong {
		return
	}
	s.cells[i].mark = MarkNone
	s.view.ClearWrongMark(i)
}

// Reset regenerates the board and returns to the idle memorization state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// ChangeSize switches the full-grid level to another size and regenerates.
func (s *Session) ChangeSize(size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mode.FullGrid {
		return ErrFixedSize
	}
	m := FullGridMode(size)
	if err := m.Validate(); err != nil {
		return err
	}
	s.mode = m
	s.resetLocked()
	return nil
}

// SwitchMode changes level (and size) and regenerates.
func (s *Session) SwitchMode(m Mode) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	s.resetLocked()
	return nil
}

// TriggerDecoy shows the taunt and clears the message after DecoyDelay,
// whatever message is showing by then.
func (s *Session) TriggerDecoy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mode.HasDecoy() {
		return ErrDecoyUnavailable
	}
	s.showMessageLocked(s.msgs.Decoy(), MessageError)
	s.sched.AfterFunc(DecoyDelay, s.clearMessage)
	return nil
}

func (s *Session) clearMessage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = Message{Kind: MessageNone}
	s.view.ClearMessage()
}

func (s *Session) resetLocked() {
	s.board, s.target = Generate(s.mode, s.rng)
	s.cells = make([]cellState, len(s.board.Cells))
	for i := range s.cells {
		s.cells[i] = cellState{revealed: true, mark: MarkNone}
	}
	s.started = false
	s.progress = 0
	s.phase = PhaseIdle
	s.message = Message{Kind: MessageNone}
	s.boardID = uuid.NewString()
	s.epoch++
	s.view.ShowBoard(s.board.Clone())
	s.view.ClearMessage()
}

func (s *Session) showMessageLocked(text string, kind MessageKind) {
	s.message = Message{Text: text, Kind: kind}
	s.view.ShowMessage(text, kind)
}

// CellView is the projection of one cell.
type CellView struct {
	Index    int
	Row      int
	Col      int
	Number   int
	Empty    bool
	Revealed bool
	Mark     CellMark
}

// Snapshot is a consistent copy of everything a renderer needs.
type Snapshot struct {
	SessionID string
	BoardID   string
	Mode      Mode
	Phase     Phase
	Started   bool
	Progress  int
	Total     int
	Next      int
	Round     int
	Cells     []CellView
	Message   Message
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cells := make([]CellView, len(s.cells))
	for i, st := range s.cells {
		n := s.board.Cells[i]
		cells[i] = CellView{
			Index:    i,
			Row:      i / s.board.Size,
			Col:      i % s.board.Size,
			Number:   n,
			Empty:    n == 0,
			Revealed: st.revealed,
			Mark:     st.mark,
		}
	}
	next := 0
	if s.progress < len(s.target) {
		next = s.target[s.progress]
	}
	return Snapshot{
		SessionID: s.id,
		BoardID:   s.boardID,
		Mode:      s.mode,
		Phase:     s.phase,
		Started:   s.started,
		Progress:  s.progress,
		Total:     len(s.target),
		Next:      next,
		Round:     s.round,
		Cells:     cells,
		Message:   s.message,
	}
}

// Board returns a copy of the current board.
func (s *Session) Board() Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// Target returns a copy of the ascending target sequence.
func (s *Session) Target() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.target)
}
