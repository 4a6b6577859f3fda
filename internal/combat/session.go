package combat

import (
	"go.uber.org/zap"

	"github.com/thornwatch/d20combat/internal/condition"
	"github.com/thornwatch/d20combat/internal/dice"
	"github.com/thornwatch/d20combat/internal/errors"
	"github.com/thornwatch/d20combat/internal/uuid"
)

// State is the session lifecycle state.
type State string

const (
	StateSetup  State = "setup"
	StateActive State = "active"
	StateEnded  State = "ended"
)

// OutcomeKind distinguishes the terminal outcomes.
type OutcomeKind string

const (
	OutcomeVictory OutcomeKind = "victory"
	OutcomeDraw    OutcomeKind = "draw"
)

// Outcome is the terminal result of an encounter.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`
	Side string      `json:"side,omitempty"` // winning side for victories
}

// SessionConfig holds the injected capabilities for a session. Every field
// is optional; zero values fall back to production defaults.
type SessionConfig struct {
	Roller        dice.Roller
	Registry      *condition.Registry
	Logger        *zap.Logger
	UUIDGenerator uuid.Generator
}

// Session owns one combat encounter from setup through its terminal state.
// Sessions are independent units of mutable state: they never share
// combatants, and a caller running several encounters holds several
// sessions. Not safe for concurrent use; combat is strictly sequenced.
type Session struct {
	ID string

	state      State
	round      int
	turn       int
	combatants map[string]*Combatant
	order      []string // initiative-sorted combatant ids
	added      []string // registration order, for initiative tie-breaks
	initiative map[string]*InitiativeResult
	rolled     bool
	log        []LogEntry
	outcome    *Outcome

	roller   dice.Roller
	registry *condition.Registry
	logger   *zap.Logger
	idGen    uuid.Generator
}

// NewSession creates an empty session in the setup state.
func NewSession(cfg *SessionConfig) (*Session, error) {
	if cfg == nil {
		cfg = &SessionConfig{}
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}

	registry := cfg.Registry
	if registry == nil {
		var err error
		registry, err = condition.NewRegistry()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load standard condition table")
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	idGen := cfg.UUIDGenerator
	if idGen == nil {
		idGen = uuid.NewGoogleUUIDGenerator()
	}

	return &Session{
		ID:         idGen.New(),
		state:      StateSetup,
		combatants: make(map[string]*Combatant),
		initiative: make(map[string]*InitiativeResult),
		roller:     roller,
		registry:   registry,
		logger:     logger,
		idGen:      idGen,
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Round returns the current round number (0 during setup).
func (s *Session) Round() int { return s.round }

// Registry exposes the session's condition table for callers applying
// external effects.
func (s *Session) Registry() *condition.Registry { return s.registry }

// AddCombatant copies a stat sheet into the session. Only legal during setup.
func (s *Session) AddCombatant(sheet StatSheet) (*Combatant, error) {
	if s.state != StateSetup {
		return nil, errors.Validationf("combatants can only be added during setup, state is %s", s.state)
	}

	c, err := newCombatant(s.idGen.New(), sheet)
	if err != nil {
		return nil, err
	}

	s.combatants[c.ID] = c
	s.added = append(s.added, c.ID)

	s.logger.Debug("combatant added",
		zap.String("session_id", s.ID),
		zap.String("combatant_id", c.ID),
		zap.String("name", c.Name),
		zap.String("side", c.Side))

	return c, nil
}

// Combatant returns a combatant by id.
func (s *Session) Combatant(id string) (*Combatant, error) {
	c, ok := s.combatants[id]
	if !ok {
		return nil, errors.NotFoundf("combatant %q not found in session", id)
	}
	return c, nil
}

// RollInitiativeForAll rolls initiative for every registered combatant and
// fixes the turn order. Only legal during setup, and only once.
func (s *Session) RollInitiativeForAll() ([]*InitiativeResult, error) {
	if s.state != StateSetup {
		return nil, errors.Validationf("initiative is rolled during setup, state is %s", s.state)
	}
	if s.rolled {
		return nil, errors.AlreadyExists("initiative has already been rolled")
	}
	if len(s.added) < 2 {
		return nil, errors.Validation("at least two combatants are required")
	}

	results := make([]*InitiativeResult, 0, len(s.added))
	for i, id := range s.added {
		result, err := rollInitiative(s.roller, s.combatants[id], i)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to roll initiative for %q", id)
		}
		results = append(results, result)
		s.initiative[id] = result
	}

	s.order = buildOrder(results)
	s.rolled = true

	s.logger.Info("initiative rolled",
		zap.String("session_id", s.ID),
		zap.Strings("order", s.order))

	return results, nil
}

// Initiative returns the recorded initiative result for a combatant.
func (s *Session) Initiative(id string) (*InitiativeResult, error) {
	result, ok := s.initiative[id]
	if !ok {
		return nil, errors.NotFoundf("no initiative recorded for %q", id)
	}
	return result, nil
}

// TurnOrder returns the initiative-sorted combatant ids.
func (s *Session) TurnOrder() []string {
	order := make([]string, len(s.order))
	copy(order, s.order)
	return order
}

// Start transitions setup to active. Rolls initiative if the caller has
// not already done so. The transition is irreversible.
func (s *Session) Start() error {
	if s.state != StateSetup {
		return errors.Validationf("session already started, state is %s", s.state)
	}
	if !s.rolled {
		if _, err := s.RollInitiativeForAll(); err != nil {
			return err
		}
	}

	s.state = StateActive
	s.round = 1
	s.turn = 0
	if current := s.current(); current != nil {
		current.Economy.Reset()
	}

	s.logger.Info("combat started",
		zap.String("session_id", s.ID),
		zap.Int("combatants", len(s.combatants)))

	return nil
}

// current returns the combatant at the current turn index, or nil.
func (s *Session) current() *Combatant {
	if s.turn < 0 || s.turn >= len(s.order) {
		return nil
	}
	return s.combatants[s.order[s.turn]]
}

// Current returns the combatant whose turn it is.
func (s *Session) Current() (*Combatant, error) {
	if s.state != StateActive {
		return nil, errors.Validationf("no current turn, state is %s", s.state)
	}
	c := s.current()
	if c == nil {
		return nil, errors.Internal("turn index out of range")
	}
	return c, nil
}

// Advance moves to the next living combatant's turn. When the turn index
// wraps, the round increments and round-boundary condition decay runs for
// every combatant. Fails with a combat-ended error when an end condition
// already holds, so control is never handed to a defeated side.
func (s *Session) Advance() (*Combatant, error) {
	switch s.state {
	case StateEnded:
		return nil, errors.CombatEnded("combat has already ended")
	case StateSetup:
		return nil, errors.Validation("combat has not started")
	}

	// The end condition is checked after every resolved action, but a
	// caller may advance without acting; re-check before handing out a turn.
	if s.checkEnd() {
		return nil, errors.CombatEnded("combat has ended")
	}

	for range s.order {
		s.turn++
		if s.turn >= len(s.order) {
			s.turn = 0
			s.round++
			s.decayConditions()
			if s.checkEnd() {
				return nil, errors.CombatEnded("combat has ended")
			}
		}

		next := s.current()
		if next != nil && !next.IsDead() {
			next.Economy.Reset()
			s.logger.Debug("turn advanced",
				zap.String("session_id", s.ID),
				zap.Int("round", s.round),
				zap.Int("turn", s.turn),
				zap.String("combatant", next.Name))
			return next, nil
		}
	}

	// Every combatant is dead; the end check above should have caught it.
	s.end()
	return nil, errors.CombatEnded("no living combatants remain")
}

// decayConditions applies round-boundary duration decay to every combatant.
func (s *Session) decayConditions() {
	for _, id := range s.order {
		c := s.combatants[id]
		if expired := c.TickConditions(); len(expired) > 0 {
			s.logger.Debug("conditions expired",
				zap.String("session_id", s.ID),
				zap.String("combatant", c.Name),
				zap.Strings("conditions", expired))
		}
	}
}

// checkEnd evaluates the end condition and transitions to ended when it
// holds: one side standing wins, zero sides standing is a draw.
func (s *Session) checkEnd() bool {
	if s.state == StateEnded {
		return true
	}

	sides := make(map[string]bool) // side -> has a standing member
	for _, c := range s.combatants {
		if _, seen := sides[c.Side]; !seen {
			sides[c.Side] = false
		}
		if !c.IsDefeated() {
			sides[c.Side] = true
		}
	}
	if len(sides) < 2 {
		return false
	}

	var standing []string
	for side, up := range sides {
		if up {
			standing = append(standing, side)
		}
	}

	switch len(standing) {
	case 0:
		s.outcome = &Outcome{Kind: OutcomeDraw}
	case 1:
		s.outcome = &Outcome{Kind: OutcomeVictory, Side: standing[0]}
	default:
		return false
	}

	s.end()
	return true
}

func (s *Session) end() {
	if s.state == StateEnded {
		return
	}
	s.state = StateEnded
	if s.outcome == nil {
		s.outcome = &Outcome{Kind: OutcomeDraw}
	}

	s.logger.Info("combat ended",
		zap.String("session_id", s.ID),
		zap.Int("round", s.round),
		zap.String("outcome", string(s.outcome.Kind)),
		zap.String("side", s.outcome.Side))
}

// Outcome returns the terminal outcome, or nil while combat is undecided.
func (s *Session) Outcome() *Outcome {
	if s.outcome == nil {
		return nil
	}
	out := *s.outcome
	return &out
}

// CombatantStatus is one combatant's slice of a status snapshot.
type CombatantStatus struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Side       string   `json:"side"`
	CurrentHP  int      `json:"current_hp"`
	MaxHP      int      `json:"max_hp"`
	TempHP     int      `json:"temp_hp,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
	Dead       bool     `json:"dead,omitempty"`
}

// Status is a point-in-time snapshot of the whole session.
type Status struct {
	SessionID  string            `json:"session_id"`
	State      State             `json:"state"`
	Round      int               `json:"round"`
	Turn       int               `json:"turn"`
	CurrentID  string            `json:"current_id,omitempty"`
	Ended      bool              `json:"ended"`
	Outcome    *Outcome          `json:"outcome,omitempty"`
	Combatants []CombatantStatus `json:"combatants"`
}

// Status reports the session snapshot in turn order, with combatants still
// awaiting initiative listed in registration order.
func (s *Session) Status() Status {
	ids := s.order
	if len(ids) == 0 {
		ids = s.added
	}

	combatants := make([]CombatantStatus, 0, len(ids))
	for _, id := range ids {
		c := s.combatants[id]
		combatants = append(combatants, CombatantStatus{
			ID:         c.ID,
			Name:       c.Name,
			Side:       c.Side,
			CurrentHP:  c.CurrentHP,
			MaxHP:      c.MaxHP,
			TempHP:     c.TempHP,
			Conditions: c.ConditionNames(),
			Dead:       c.IsDead(),
		})
	}

	status := Status{
		SessionID:  s.ID,
		State:      s.state,
		Round:      s.round,
		Turn:       s.turn,
		Ended:      s.state == StateEnded,
		Outcome:    s.Outcome(),
		Combatants: combatants,
	}
	if s.state == StateActive {
		if c := s.current(); c != nil {
			status.CurrentID = c.ID
		}
	}
	return status
}

// Log returns the ordered record of every resolved action.
func (s *Session) Log() []LogEntry {
	log := make([]LogEntry, len(s.log))
	copy(log, s.log)
	return log
}
