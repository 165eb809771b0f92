package profile

import (
	"context"
	"sync"
	"time"
)

// Directory is an in-memory Store. One RWMutex guards the collection:
// mutations hold the write lock across check and write, reads share the read
// lock, so no reader sees a half-applied change.
type Directory struct {
	mu       sync.RWMutex
	profiles map[int64]*Profile
	lastID   int64
	now      func() time.Time
}

var _ Store = (*Directory)(nil)

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		profiles: make(map[int64]*Profile),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts p with a fresh ID.
func (d *Directory) Create(_ context.Context, p Profile) (*Profile, error) {
	if err := requireFields(&p); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.findByEmailLocked(p.Email) != nil {
		return nil, ErrDuplicateEmail
	}

	d.lastID++
	now := d.now()
	stored := p.clone()
	stored.ID = d.lastID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	d.profiles[stored.ID] = stored

	return stored.clone(), nil
}

// GetByID returns the profile with the given ID or ErrNotFound.
func (d *Directory) GetByID(_ context.Context, id int64) (*Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

// GetByEmail looks a profile up by email, ignoring case.
func (d *Directory) GetByEmail(_ context.Context, email string) (*Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p := d.findByEmailLocked(email)
	if p == nil {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

func (d *Directory) findByEmailLocked(email string) *Profile {
	key := EmailKey(email)
	for _, p := range d.profiles {
		if EmailKey(p.Email) == key {
			return p
		}
	}
	return nil
}

// Update replaces the editable fields of an existing profile.
func (d *Directory) Update(_ context.Context, p Profile) (*Profile, error) {
	if err := requireFields(&p); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.profiles[p.ID]
	if !ok {
		return nil, ErrNotFound
	}

	stored := p.clone()
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = d.now()
	d.profiles[stored.ID] = stored

	return stored.clone(), nil
}

// Delete removes a profile and reports whether it existed.
func (d *Directory) Delete(_ context.Context, id int64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.profiles[id]; !ok {
		return false, nil
	}
	delete(d.profiles, id)
	return true, nil
}

// Search returns the profiles matching term.
func (d *Directory) Search(ctx context.Context, term string) ([]*Profile, error) {
	if isBlank(term) {
		return d.GetAll(ctx)
	}
	folded := fold(term)

	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]*Profile, 0)
	for _, p := range d.profiles {
		if p.matches(folded) {
			result = append(result, p.clone())
		}
	}
	sortProfiles(result)
	return result, nil
}

// GetAll returns every profile.
func (d *Directory) GetAll(_ context.Context) ([]*Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]*Profile, 0, len(d.profiles))
	for _, p := range d.profiles {
		result = append(result, p.clone())
	}
	sortProfiles(result)
	return result, nil
}
