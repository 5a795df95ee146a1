// Package memory is an in-process implementation of the farm store, used in
// tests and local runs without MongoDB.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mamadbah2/fishfarm/internal/domain/models"
	"github.com/mamadbah2/fishfarm/internal/repository"
)

// Store keeps every record in maps guarded by one mutex.
type Store struct {
	mu        sync.Mutex
	seq       int
	now       func() time.Time
	users     map[string]models.User
	settings  map[string]models.FarmSettings
	batches   map[string]models.Batch
	sections  map[models.SectionKind]map[string]models.SectionRecord
	feedPlans []models.FeedPlan
}

// New returns an empty store.
func New() *Store {
	return &Store{
		now:      time.Now,
		users:    map[string]models.User{},
		settings: map[string]models.FarmSettings{},
		batches:  map[string]models.Batch{},
		sections: map[models.SectionKind]map[string]models.SectionRecord{},
	}
}

func (s *Store) nextID() string {
	s.seq++
	return fmt.Sprintf("%024x", s.seq)
}

// tick returns a strictly increasing timestamp so newest-first ordering is stable.
func (s *Store) tick() time.Time {
	return s.now().UTC().Add(time.Duration(s.seq) * time.Microsecond)
}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return models.User{}, repository.ErrDuplicate
		}
	}
	user.ID = s.nextID()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.tick()
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (s *Store) FindUserByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetSettings(_ context.Context, userID string) (models.FarmSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.settings[userID]
	if !ok {
		return models.FarmSettings{}, repository.ErrNotFound
	}
	return st, nil
}

func (s *Store) UpsertSettings(_ context.Context, settings models.FarmSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.UpdatedAt = s.now().UTC()
	s.settings[settings.UserID] = settings
	return nil
}

func (s *Store) ListBatches(_ context.Context, userID string) ([]models.Batch, error) {
	return s.filterBatches(func(b models.Batch) bool { return b.UserID == userID }), nil
}

func (s *Store) ListActiveBatches(_ context.Context, userID string) ([]models.Batch, error) {
	return s.filterBatches(func(b models.Batch) bool {
		return b.UserID == userID && b.Status == models.BatchStatusActive
	}), nil
}

func (s *Store) FindBatch(_ context.Context, userID, id string) (models.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[id]
	if !ok || b.UserID != userID {
		return models.Batch{}, repository.ErrNotFound
	}
	return b, nil
}

func (s *Store) ListOwners(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	owners := make([]string, 0)
	for _, b := range s.batches {
		if b.Status == models.BatchStatusActive && !seen[b.UserID] {
			seen[b.UserID] = true
			owners = append(owners, b.UserID)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

func (s *Store) CreateBatch(_ context.Context, batch models.Batch) (models.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch.ID = s.nextID()
	batch.CreatedAt = s.tick()
	s.batches[batch.ID] = batch
	return batch, nil
}

func (s *Store) DeleteBatch(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[id]
	if !ok || b.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.batches, id)
	return nil
}

func (s *Store) ListSectionRecords(_ context.Context, kind models.SectionKind, userID string) ([]models.SectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SectionRecord, 0)
	for _, r := range s.sections[kind] {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CreateSectionRecord(_ context.Context, record models.SectionRecord) (models.SectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = s.nextID()
	record.CreatedAt = s.tick()
	if s.sections[record.Section] == nil {
		s.sections[record.Section] = map[string]models.SectionRecord{}
	}
	s.sections[record.Section][record.ID] = record
	return record, nil
}

func (s *Store) DeleteSectionRecord(_ context.Context, kind models.SectionKind, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.sections[kind][id]
	if !ok || r.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.sections[kind], id)
	return nil
}

func (s *Store) SaveFeedPlan(_ context.Context, plan models.FeedPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.tick()
	}
	s.feedPlans = append(s.feedPlans, plan)
	return nil
}

// FeedPlans returns a copy of every saved plan, oldest first.
func (s *Store) FeedPlans() []models.FeedPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FeedPlan, len(s.feedPlans))
	copy(out, s.feedPlans)
	return out
}

func (s *Store) filterBatches(keep func(models.Batch) bool) []models.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Batch, 0)
	for _, b := range s.batches {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
