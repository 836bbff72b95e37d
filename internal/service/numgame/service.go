package numgame

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Cheese-NumberOrder-bot/internal/msgcat"
	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
	"github.com/park285/Cheese-NumberOrder-bot/internal/render"
)

var (
	ErrSessionNotFound = errors.New("puzzle session not found")
	ErrRoomNotAllowed  = errors.New("puzzle room not allowed")
	ErrInvalidCell     = errors.New("invalid puzzle cell")
	ErrTooManySessions = errors.New("too many puzzle sessions")
)

const sessionKeyPrefix = "puzzle:sessions:"

type SessionMeta struct {
	SessionID string
	Room      string
	Sender    string
}

type sessionIdentity struct {
	SessionID  string
	RoomHash   string
	PlayerHash string
}

type Config struct {
	DefaultLevel int
	DefaultSize  int
	SessionTTL   time.Duration
	MaxSessions  int
	AllowedRooms []string
}

// SessionState is one player's board as sent to chat.
type SessionState struct {
	SessionID  string
	BoardID    string
	PlayerHash string
	RoomHash   string
	Snapshot   puzzle.Snapshot
	BoardImage []byte
	StartedAt  time.Time
	UpdatedAt  time.Time
}

// ClickSummary is the result of one chat click.
type ClickSummary struct {
	State   *SessionState
	Outcome puzzle.ClickOutcome
	Cell    string
}

type Option func(*Service)

// WithScheduler replaces the timer source for every new session.
func WithScheduler(s puzzle.Scheduler) Option {
	return func(svc *Service) { svc.scheduler = s }
}

// WithRandSource replaces the shuffle source for every new session.
func WithRandSource(f func() puzzle.Rand) Option {
	return func(svc *Service) { svc.newRand = f }
}

// WithClock replaces time.Now for session expiry.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

type Service struct {
	renderer     render.BoardRenderer
	messages     puzzle.Messages
	sessions     *registry
	cfg          Config
	defaultMode  puzzle.Mode
	allowedRooms map[string]struct{}
	logger       *zap.Logger

	scheduler puzzle.Scheduler
	newRand   func() puzzle.Rand
	now       func() time.Time
}

func NewService(renderer render.BoardRenderer, catalog *msgcat.Catalog, cfg Config, logger *zap.Logger, opts ...Option) (*Service, error) {
	if renderer == nil {
		return nil, fmt.Errorf("board renderer is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("message catalog is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session TTL must be greater than 0")
	}
	if cfg.DefaultLevel == 0 {
		cfg.DefaultLevel = int(puzzle.Level1)
	}
	if cfg.DefaultSize == 0 {
		cfg.DefaultSize = puzzle.Level1Sizes[0]
	}
	mode, err := puzzle.ModeFor(puzzle.Level(cfg.DefaultLevel), cfg.DefaultSize)
	if err != nil {
		return nil, fmt.Errorf("default mode validation failed: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	allowedRooms := make(map[string]struct{})
	for _, room := range cfg.AllowedRooms {
		normalized := strings.ToLower(strings.TrimSpace(room))
		if normalized == "" {
			continue
		}
		allowedRooms[normalized] = struct{}{}
	}

	s := &Service{
		renderer:     renderer,
		messages:     msgcat.NewPuzzleMessages(catalog),
		cfg:          cfg,
		defaultMode:  mode,
		allowedRooms: allowedRooms,
		logger:       logger,
		scheduler:    puzzle.RealScheduler{},
		newRand:      puzzle.DefaultRand,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = newRegistry(cfg.SessionTTL, cfg.MaxSessions, s.now)
	return s, nil
}

// Open returns the player's board, creating one in the default mode when
// none exists. resumed reports whether an existing board was returned.
func (s *Service) Open(ctx context.Context, meta SessionMeta) (state *SessionState, resumed bool, err error) {
	if err := s.ensureRoomAllowed(meta); err != nil {
		return nil, false, err
	}
	identity := deriveIdentity(meta)
	if e, ok := s.sessions.get(s.sessionKey(identity.SessionID)); ok {
		return s.stateFrom(ctx, e), true, nil
	}
	e, err := s.create(identity, s.defaultMode)
	if err != nil {
		return nil, false, err
	}
	return s.stateFrom(ctx, e), false, nil
}

// Start hides the numbers and begins a round on the player's board.
func (s *Service) Start(ctx context.Context, meta SessionMeta) (*SessionState, error) {
	e, err := s.lookup(meta)
	if err != nil {
		return nil, err
	}
	if err := e.session.Start(); err != nil {
		return nil, err
	}
	s.logger.Info("puzzle_round_start",
		zap.String("session_id", e.session.ID()),
		zap.String("mode", e.session.Mode().Level.String()),
	)
	return s.stateFrom(ctx, e), nil
}

// Click resolves a chat coordinate and validates it against the round.
// Game-rule outcomes (wrong number, not started) are reported in the
// summary, not as errors.
func (s *Service) Click(ctx context.Context, meta SessionMeta, cell string) (*ClickSummary, error) {
	e, err := s.lookup(meta)
	if err != nil {
		return nil, err
	}
	size := e.session.Mode().Size
	idx, err := puzzle.ParseCell(size, cell)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCell, strings.TrimSpace(cell))
	}
	outcome := e.session.HandleClick(idx)
	s.logger.Info("puzzle_click",
		zap.String("session_id", e.session.ID()),
		zap.String("cell", puzzle.CellLabel(size, idx)),
		zap.String("outcome", outcome.String()),
		zap.Int("progress", outcome.Progress),
	)
	return &ClickSummary{
		State:   s.stateFrom(ctx, e),
		Outcome: outcome,
		Cell:    puzzle.CellLabel(size, idx),
	}, nil
}

// Reset deals a new board in the current mode, creating the session if needed.
func (s *Service) Reset(ctx context.Context, meta SessionMeta) (*SessionState, error) {
	e, err := s.lookupOrCreate(meta)
	if err != nil {
		return nil, err
	}
	e.session.Reset()
	return s.stateFrom(ctx, e), nil
}

// ChangeSize switches a level 1 board to size n.
func (s *Service) ChangeSize(ctx context.Context, meta SessionMeta, n int) (*SessionState, error) {
	e, err := s.lookupOrCreate(meta)
	if err != nil {
		return nil, err
	}
	if err := e.session.ChangeSize(n); err != nil {
		return nil, err
	}
	return s.stateFrom(ctx, e), nil
}

// SelectLevel switches the board to level 1 (keeping the default size) or level 2.
func (s *Service) SelectLevel(ctx context.Context, meta SessionMeta, level int) (*SessionState, error) {
	e, err := s.lookupOrCreate(meta)
	if err != nil {
		return nil, err
	}
	size := s.cfg.DefaultSize
	if cur := e.session.Mode(); cur.FullGrid {
		size = cur.Size
	}
	mode, err := puzzle.ModeFor(puzzle.Level(level), size)
	if err != nil {
		return nil, err
	}
	if err := e.session.SwitchMode(mode); err != nil {
		return nil, err
	}
	return s.stateFrom(ctx, e), nil
}

// Decoy presses the fake next-level control.
func (s *Service) Decoy(ctx context.Context, meta SessionMeta) (*SessionState, error) {
	e, err := s.lookup(meta)
	if err != nil {
		return nil, err
	}
	if err := e.session.TriggerDecoy(); err != nil {
		return nil, err
	}
	return s.stateFrom(ctx, e), nil
}

func (s *Service) Status(ctx context.Context, meta SessionMeta) (*SessionState, error) {
	e, err := s.lookup(meta)
	if err != nil {
		return nil, err
	}
	return s.stateFrom(ctx, e), nil
}

// Close drops the player's session.
func (s *Service) Close(meta SessionMeta) {
	s.sessions.delete(s.sessionKey(deriveIdentity(meta).SessionID))
}

// Sweep evicts expired sessions and returns how many were removed.
func (s *Service) Sweep() int {
	n := s.sessions.sweep()
	if n > 0 {
		s.logger.Info("puzzle_sessions_swept", zap.Int("removed", n), zap.Int("remaining", s.sessions.len()))
	}
	return n
}

func (s *Service) ActiveSessions() int { return s.sessions.len() }

func (s *Service) lookup(meta SessionMeta) (*entry, error) {
	if err := s.ensureRoomAllowed(meta); err != nil {
		return nil, err
	}
	identity := deriveIdentity(meta)
	e, ok := s.sessions.get(s.sessionKey(identity.SessionID))
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (s *Service) lookupOrCreate(meta SessionMeta) (*entry, error) {
	e, err := s.lookup(meta)
	if errors.Is(err, ErrSessionNotFound) {
		return s.create(deriveIdentity(meta), s.defaultMode)
	}
	return e, err
}

func (s *Service) create(identity sessionIdentity, mode puzzle.Mode) (*entry, error) {
	view := newLogView(s.logger, identity.SessionID)
	session, err := puzzle.NewSession(puzzle.Config{
		Mode:      mode,
		Rand:      s.newRand(),
		View:      view,
		Scheduler: s.scheduler,
		Messages:  s.messages,
	})
	if err != nil {
		return nil, err
	}
	e := &entry{session: session, identity: identity}
	if err := s.sessions.put(s.sessionKey(identity.SessionID), e); err != nil {
		s.logger.Warn("puzzle_session_rejected", zap.Error(err), zap.Int("active", s.sessions.len()))
		return nil, err
	}
	s.logger.Info("puzzle_session_open",
		zap.String("session_id", session.ID()),
		zap.String("room_hash", identity.RoomHash),
		zap.String("mode", mode.Level.String()),
		zap.Int("size", mode.Size),
	)
	return e, nil
}

func (s *Service) stateFrom(ctx context.Context, e *entry) *SessionState {
	snap := e.session.Snapshot()
	state := &SessionState{
		SessionID:  snap.SessionID,
		BoardID:    snap.BoardID,
		PlayerHash: e.identity.PlayerHash,
		RoomHash:   e.identity.RoomHash,
		Snapshot:   snap,
		StartedAt:  e.createdAt,
		UpdatedAt:  s.now(),
	}
	s.attachBoardImage(ctx, state)
	return state
}

func (s *Service) attachBoardImage(ctx context.Context, state *SessionState) {
	data, err := s.renderer.RenderPNG(ctx, state.Snapshot, render.Options{})
	if err != nil {
		s.logger.Warn("failed to render puzzle board image", zap.Error(err), zap.String("session_id", state.SessionID))
		return
	}
	state.BoardImage = data
}

func (s *Service) ensureRoomAllowed(meta SessionMeta) error {
	if len(s.allowedRooms) == 0 {
		return nil
	}
	room := strings.ToLower(strings.TrimSpace(meta.Room))
	if room == "" {
		room = "unknown-room"
	}
	if _, ok := s.allowedRooms[room]; ok {
		return nil
	}
	s.logger.Info("puzzle room access denied",
		zap.String("room", room),
		zap.String("sender", strings.TrimSpace(meta.Sender)),
	)
	return ErrRoomNotAllowed
}

func (s *Service) sessionKey(sessionID string) string {
	return sessionKeyPrefix + hashString(sessionID)
}

func deriveIdentity(meta SessionMeta) sessionIdentity {
	room := strings.ToLower(strings.TrimSpace(meta.Room))
	sender := strings.ToLower(strings.TrimSpace(meta.Sender))
	sessionID := strings.ToLower(strings.TrimSpace(meta.SessionID))
	if sessionID == "" {
		sessionID = room + ":" + sender
	}
	return sessionIdentity{
		SessionID:  sessionID,
		RoomHash:   hashString(room),
		PlayerHash: hashString(room + ":" + sender),
	}
}

func hashString(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
