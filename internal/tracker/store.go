package tracker

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
	ErrUnknownField  = errors.New("unknown accumulator field")
)

// Store is the in-memory user id -> record mapping. It lives as long as
// the process does.
type Store struct {
	mu      sync.RWMutex
	records map[int64]*Record
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		records: make(map[int64]*Record),
		now:     time.Now,
	}
}

func (s *Store) Create(userID int64, profile Profile, goals Goals) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[userID]; ok {
		return Record{}, ErrAlreadyExists
	}

	rec := &Record{
		UserID:    userID,
		Profile:   profile,
		Goals:     goals,
		CreatedAt: s.now().UTC(),
	}
	s.records[userID] = rec
	log.Debugf("store: profile created for user %d", userID)

	return *rec, nil
}

// Get returns a copy of the user's record.
func (s *Store) Get(userID int64) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return *rec, nil
}

func (s *Store) Exists(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[userID]
	return ok
}

// Delete removes the record entirely; ErrNotFound tells the caller there was
// nothing to remove.
func (s *Store) Delete(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[userID]; !ok {
		return ErrNotFound
	}
	delete(s.records, userID)
	log.Debugf("store: profile deleted for user %d", userID)

	return nil
}

// Accumulate adds delta to one accumulator. Range checks are the caller's job.
func (s *Store) Accumulate(userID int64, field Field, delta int) (Record, error) {
	return s.Update(userID, func(rec *Record) error {
		acc, err := rec.Totals.accumulator(field)
		if err != nil {
			return err
		}
		*acc += delta
		return nil
	})
}

// Update applies fn to the stored record under the write lock. Nothing is
// stored when fn returns an error.
func (s *Store) Update(userID int64, fn func(rec *Record) error) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return Record{}, ErrNotFound
	}

	updated := *rec
	if err := fn(&updated); err != nil {
		return Record{}, err
	}
	*rec = updated

	return updated, nil
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
