package wizard

import (
	"sync"
	"time"

	"github.com/2beens/nutribot/internal/tracker"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Kind string

const (
	KindProfile Kind = "profile"
	KindWorkout Kind = "workout"
)

func (k Kind) String() string {
	return string(k)
}

type Step int

const (
	StepAwaitingWeight Step = iota
	StepAwaitingHeight
	StepAwaitingSex
	StepAwaitingAge
	StepAwaitingActivity
	StepAwaitingCalorieOverride
	StepAwaitingCity
	StepAwaitingWorkoutType
	StepAwaitingDuration
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepAwaitingWeight:
		return "weight"
	case StepAwaitingHeight:
		return "height"
	case StepAwaitingSex:
		return "sex"
	case StepAwaitingAge:
		return "age"
	case StepAwaitingActivity:
		return "activity"
	case StepAwaitingCalorieOverride:
		return "calorie_override"
	case StepAwaitingCity:
		return "city"
	case StepAwaitingWorkoutType:
		return "workout_type"
	case StepAwaitingDuration:
		return "duration"
	case StepComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Session is the pending dialogue of one user. Draft fields are only
// written once the reply for their step was accepted.
type Session struct {
	ID        uuid.UUID
	UserID    int64
	Kind      Kind
	Step      Step
	Profile   tracker.Profile
	Workout   tracker.WorkoutType
	StartedAt time.Time
	UpdatedAt time.Time
}

// Sessions keeps at most one session per user. Sessions idle for longer
// than ttl are dropped by ScanAndClean.
type Sessions struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Start opens a new session at step, replacing whatever the user had pending.
func (s *Sessions) Start(userID int64, kind Kind, step Step) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.sessions[userID]; ok {
		log.Debugf("wizard: user %d replaces pending %s session %s", userID, prev.Kind, prev.ID)
	}

	now := s.now()
	sess := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Step:      step,
		StartedAt: now,
		UpdatedAt: now,
	}
	s.sessions[userID] = sess

	return *sess
}

// Get returns a copy of the user's session.
func (s *Sessions) Get(userID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Save stores sess if it is still the user's current session.
func (s *Sessions) Save(sess Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[sess.UserID]
	if !ok || current.ID != sess.ID {
		return false
	}

	sess.UpdatedAt = s.now()
	*current = sess

	return true
}

// Finish discards the user's session and reports whether there was one.
func (s *Sessions) Finish(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[userID]; !ok {
		return false
	}
	delete(s.sessions, userID)

	return true
}

func (s *Sessions) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ScanAndClean removes the sessions that were idle longer than the ttl.
func (s *Sessions) ScanAndClean() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for userID, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			log.Tracef("wizard: session %s of user %d expired", sess.ID, userID)
			delete(s.sessions, userID)
			removed++
		}
	}

	return removed
}

// advance moves sess to next and returns its prompt. It fails with
// ErrSessionExpired if sess is no longer the user's current session.
func advance(sessions *Sessions, sess Session, next Step, prompt string) (Response, error) {
	sess.Step = next
	if !sessions.Save(sess) {
		return Response{}, ErrSessionExpired
	}
	return Response{Text: prompt, Step: next}, nil
}
