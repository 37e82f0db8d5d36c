package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/cryptox"
)

// MemoryRepository keeps records in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[int64]*Record
}

// NewMemoryRepository returns a repository holding the demo accounts.
func NewMemoryRepository() *MemoryRepository {
	r := &MemoryRepository{records: make(map[int64]*Record)}
	for _, s := range account.Seeds() {
		salt, hash := cryptox.HashPassword([]byte(s.Password))
		r.records[s.Profile.ID] = &Record{Profile: s.Profile, Salt: salt, Hash: hash}
	}
	return r
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.Profile.Email == email {
			c := *rec
			return &c, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	c := *rec
	return &c, nil
}

func (r *MemoryRepository) Update(_ context.Context, p account.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[p.ID]
	if !ok {
		return account.ErrAccountNotFound
	}
	rec.Profile = p
	return nil
}

func (r *MemoryRepository) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	rec.Profile.LastLogin = at
	return nil
}
