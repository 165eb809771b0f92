// Package profile owns contact profiles: the directory that stores them, the
// service that validates changes, and the HTTP handlers in front of both.
package profile

import (
	"cmp"
	"context"
	"slices"
	"strings"
)

// Store is the profile directory contract. Two implementations exist: the
// in-memory Directory and the SQL-backed Repository.
//
// Create assigns the ID and both timestamps and fails with ErrDuplicateEmail
// when another profile has the same email, compared case-insensitively.
// Update fails with ErrNotFound for an unknown ID, keeps ID and CreatedAt,
// overwrites everything else and does not check email uniqueness. Search
// matches case-insensitive substrings of the names, full name, email, phone
// and URLs. The term is used as given; only a blank term returns everything.
// Listings are ordered by case-folded last name, first name, then ID.
// Returned profiles are copies.
type Store interface {
	Create(ctx context.Context, p Profile) (*Profile, error)
	GetByID(ctx context.Context, id int64) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	Update(ctx context.Context, p Profile) (*Profile, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, term string) ([]*Profile, error)
	GetAll(ctx context.Context) ([]*Profile, error)
}

// searchFields lists the values Search looks at.
func (p *Profile) searchFields() []string {
	fields := []string{p.FirstName, p.LastName, p.FullName(), p.Email}
	for _, opt := range []*string{p.Phone, p.LinkedIn, p.GitHub} {
		if opt != nil {
			fields = append(fields, *opt)
		}
	}
	return fields
}

// matches reports whether any searchable field contains the folded term.
func (p *Profile) matches(foldedTerm string) bool {
	for _, f := range p.searchFields() {
		if strings.Contains(fold(f), foldedTerm) {
			return true
		}
	}
	return false
}

// searchKey joins the folded searchable fields with newlines. Every match
// of a term is a substring of it, so SQL can narrow candidates with LIKE
// before matches decides.
func (p *Profile) searchKey() string {
	fields := p.searchFields()
	for i, f := range fields {
		fields[i] = fold(f)
	}
	return strings.Join(fields, "\n")
}

// isBlank reports whether term selects every profile.
func isBlank(term string) bool {
	return strings.TrimSpace(term) == ""
}

func compareProfiles(a, b *Profile) int {
	return cmp.Or(
		cmp.Compare(fold(a.LastName), fold(b.LastName)),
		cmp.Compare(fold(a.FirstName), fold(b.FirstName)),
		cmp.Compare(a.ID, b.ID),
	)
}

func sortProfiles(ps []*Profile) {
	slices.SortFunc(ps, compareProfiles)
}
