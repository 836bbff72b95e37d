package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
)

// Options configures the terminal client. Zero-valued collaborators fall
// back to the puzzle defaults.
type Options struct {
	Mode      puzzle.Mode
	Rand      puzzle.Rand
	Scheduler puzzle.Scheduler
	Messages  puzzle.Messages
	Logger    *zap.Logger
}

// Model is the root Bubble Tea model. It holds one puzzle session; the
// session owns the game state and the model only keeps the cursor.
type Model struct {
	session *puzzle.Session
	notify  notifier
	logger  *zap.Logger

	keys KeyMap
	help help.Model

	cursor int
	// lastFullSize is restored when tab returns to level 1.
	lastFullSize int
	notice       string

	width  int
	height int
}

func New(opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	n := newNotifier()
	session, err := puzzle.NewSession(puzzle.Config{
		Mode:      opts.Mode,
		Rand:      opts.Rand,
		View:      n,
		Scheduler: opts.Scheduler,
		Messages:  opts.Messages,
	})
	if err != nil {
		return Model{}, err
	}
	lastFull := puzzle.Level1Sizes[0]
	if opts.Mode.FullGrid {
		lastFull = opts.Mode.Size
	}
	return Model{
		session:      session,
		notify:       n,
		logger:       opts.Logger,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		lastFullSize: lastFull,
	}, nil
}

// Session exposes the underlying puzzle session.
func (m Model) Session() *puzzle.Session { return m.session }

// Cursor is the index of the highlighted cell.
func (m Model) Cursor() int { return m.cursor }

func (m Model) Init() tea.Cmd {
	return m.notify.wait()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case refreshMsg:
		return m, m.notify.wait()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	size := m.session.Mode().Size
	row, col := m.cursor/size, m.cursor%size

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		row = (row - 1 + size) % size
	case key.Matches(msg, m.keys.Down):
		row = (row + 1) % size
	case key.Matches(msg, m.keys.Left):
		col = (col - 1 + size) % size
	case key.Matches(msg, m.keys.Right):
		col = (col + 1) % size

	case key.Matches(msg, m.keys.Click):
		out := m.session.HandleClick(m.cursor)
		m.logger.Debug("tui_click",
			zap.String("cell", puzzle.CellLabel(size, m.cursor)),
			zap.String("outcome", out.String()),
		)
		m.notice = clickNotice(out)
		return m, nil

	case key.Matches(msg, m.keys.Start):
		m.notice = ""
		if err := m.session.Start(); err != nil {
			m.notice = errorNotice(err)
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.notice = ""
		m.session.Reset()
		return m, nil

	case key.Matches(msg, m.keys.Size3):
		return m.changeSize(3), nil
	case key.Matches(msg, m.keys.Size4):
		return m.changeSize(4), nil
	case key.Matches(msg, m.keys.Size5):
		return m.changeSize(5), nil

	case key.Matches(msg, m.keys.Level):
		return m.toggleLevel(), nil

	case key.Matches(msg, m.keys.Decoy):
		m.notice = ""
		if err := m.session.TriggerDecoy(); err != nil {
			m.notice = errorNotice(err)
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	default:
		return m, nil
	}

	m.cursor = row*size + col
	return m, nil
}

func (m Model) changeSize(n int) Model {
	m.notice = ""
	if err := m.session.ChangeSize(n); err != nil {
		m.notice = errorNotice(err)
		return m
	}
	m.lastFullSize = n
	m.cursor = min(m.cursor, n*n-1)
	return m
}

func (m Model) toggleLevel() Model {
	m.notice = ""
	next := puzzle.PartialMode()
	if !m.session.Mode().FullGrid {
		next = puzzle.FullGridMode(m.lastFullSize)
	}
	if err := m.session.SwitchMode(next); err != nil {
		m.notice = errorNotice(err)
		return m
	}
	m.cursor = min(m.cursor, next.Cells()-1)
	m.logger.Debug("tui_level", zap.String("level", next.Level.String()), zap.Int("size", next.Size))
	return m
}

func clickNotice(out puzzle.ClickOutcome) string {
	if out.Kind != puzzle.OutcomeIgnored {
		return ""
	}
	switch out.Reason {
	case puzzle.ReasonEmptyCell:
		return "빈 칸입니다"
	case puzzle.ReasonAlreadyCorrect:
		return "이미 맞힌 칸입니다"
	default:
		return ""
	}
}

func errorNotice(err error) string {
	switch {
	case errors.Is(err, puzzle.ErrRoundOver):
		return "이미 성공했습니다. r로 새 보드를 받으세요"
	case errors.Is(err, puzzle.ErrFixedSize):
		return "레벨 2는 4x4로 고정입니다"
	case errors.Is(err, puzzle.ErrDecoyUnavailable):
		return "다음 단계 버튼은 레벨 2에만 있습니다"
	case errors.Is(err, puzzle.ErrUnsupportedSize):
		return "지원하지 않는 크기입니다"
	default:
		return err.Error()
	}
}

func (m Model) View() string {
	snap := m.session.Snapshot()

	title := styleTitle.Render(fmt.Sprintf("숫자 순서 게임  ·  LEVEL %d  %dx%d",
		int(snap.Mode.Level), snap.Mode.Size, snap.Mode.Size))

	status := phaseStyle(snap.Phase).Render(statusLine(snap))
	message := ""
	if !snap.Message.Empty() {
		message = messageStyle(snap.Message.Kind).Render(snap.Message.Text)
	}
	notice := ""
	if m.notice != "" {
		notice = styleDimmed.Render(m.notice)
	}

	sections := []string{
		title,
		styleBoard.Render(m.renderGrid(snap)),
		status,
	}
	for _, s := range []string{message, notice} {
		if s != "" {
			sections = append(sections, s)
		}
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderGrid(snap puzzle.Snapshot) string {
	size := snap.Mode.Size
	var b strings.Builder

	header := make([]string, 0, size+1)
	header = append(header, styleDimmed.Width(3).Render(""))
	for c := range size {
		header = append(header, styleDimmed.Width(cellWidth).Align(lipgloss.Center).Render(puzzle.ColumnLabel(c)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for r := range size {
		row := make([]string, 0, size+1)
		row = append(row, styleDimmed.Width(3).Render(puzzle.RowLabel(r)))
		for c := range size {
			i := r*size + c
			row = append(row, cellStyle(snap.Cells[i], i == m.cursor).Render(cellText(snap.Cells[i])))
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return b.String()
}

func cellText(c puzzle.CellView) string {
	if !c.Revealed {
		return "·"
	}
	if c.Empty {
		return ""
	}
	return fmt.Sprint(c.Number)
}

func statusLine(snap puzzle.Snapshot) string {
	switch snap.Phase {
	case puzzle.PhaseActive:
		return fmt.Sprintf("진행 중  %d/%d  다음: %d", snap.Progress, snap.Total, snap.Next)
	case puzzle.PhaseWon:
		return fmt.Sprintf("성공!  %d/%d", snap.Progress, snap.Total)
	case puzzle.PhaseFailed:
		return fmt.Sprintf("실패  %d/%d  s로 다시 시작", snap.Progress, snap.Total)
	default:
		return fmt.Sprintf("외우는 중  숫자 %d개  s로 시작", snap.Total)
	}
}
