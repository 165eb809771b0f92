package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/qrprofile/internal/database"
)

// Repository is a Store backed by PostgreSQL or SQLite through bun. Every
// mutation runs in its own transaction.
type Repository struct {
	db  *bun.DB
	now func() time.Time
}

var _ Store = (*Repository)(nil)

func NewRepository(db *bun.DB) *Repository {
	return &Repository{
		db: db,
		// microseconds are the finest resolution both backends keep
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Create inserts a new profile into the database
func (r *Repository) Create(ctx context.Context, p Profile) (*Profile, error) {
	if err := requireFields(&p); err != nil {
		return nil, err
	}

	now := r.now()
	row := mapModelToDBProfile(&p)
	row.ID = 0
	row.CreatedAt = now
	row.UpdatedAt = now

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*database.Profile)(nil)).
			Where("p.email_key = ?", row.EmailKey).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateEmail
		}

		_, err = tx.NewInsert().
			Model(row).
			Returning("*").
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, mapDBError("create profile", err)
	}

	return mapDBProfileToModel(row), nil
}

// GetByID retrieves a profile by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Profile, error) {
	row := new(database.Profile)
	err := r.db.NewSelect().
		Model(row).
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, mapDBError("get profile by id", err)
	}

	return mapDBProfileToModel(row), nil
}

// GetByEmail retrieves a profile by email, ignoring case
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	row := new(database.Profile)
	err := r.db.NewSelect().
		Model(row).
		Where("p.email_key = ?", EmailKey(email)).
		Scan(ctx)
	if err != nil {
		return nil, mapDBError("get profile by email", err)
	}

	return mapDBProfileToModel(row), nil
}

// Update overwrites every editable column of an existing profile
func (r *Repository) Update(ctx context.Context, p Profile) (*Profile, error) {
	if err := requireFields(&p); err != nil {
		return nil, err
	}

	row := mapModelToDBProfile(&p)
	row.UpdatedAt = r.now()

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model(row).
			Column("first_name", "last_name", "email", "email_key", "search_key", "phone", "linkedin", "github", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrNotFound
		}

		return tx.NewSelect().
			Model(row).
			WherePK().
			Scan(ctx)
	})
	if err != nil {
		return nil, mapDBError("update profile", err)
	}

	return mapDBProfileToModel(row), nil
}

// Delete removes a profile and reports whether it existed
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.NewDelete().
		Model((*database.Profile)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, mapDBError("delete profile", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, mapDBError("delete profile", err)
	}

	return rowsAffected > 0, nil
}

// Search returns profiles with any searchable field containing term. LIKE on
// search_key narrows the rows; matches makes the final call so both stores
// agree on every input.
func (r *Repository) Search(ctx context.Context, term string) ([]*Profile, error) {
	if isBlank(term) {
		return r.GetAll(ctx)
	}
	folded := fold(term)

	var rows []database.Profile
	err := r.db.NewSelect().
		Model(&rows).
		Where(`p.search_key LIKE ? ESCAPE '\'`, "%"+escapeLike(folded)+"%").
		Scan(ctx)
	if err != nil {
		return nil, mapDBError("search profiles", err)
	}

	result := make([]*Profile, 0, len(rows))
	for _, p := range mapDBProfilesToModel(rows) {
		if p.matches(folded) {
			result = append(result, p)
		}
	}
	sortProfiles(result)
	return result, nil
}

// GetAll returns every profile ordered by name. Ordering happens here since
// database collations do not fold case the way the in-memory store does.
func (r *Repository) GetAll(ctx context.Context) ([]*Profile, error) {
	var rows []database.Profile
	err := r.db.NewSelect().
		Model(&rows).
		Scan(ctx)
	if err != nil {
		return nil, mapDBError("list profiles", err)
	}

	result := mapDBProfilesToModel(rows)
	sortProfiles(result)
	return result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// mapDBError turns backend errors into package errors. Anything unexpected
// becomes ErrStorage.
func mapDBError(op string, err error) error {
	switch {
	case errors.Is(err, ErrDuplicateEmail), isUniqueViolation(err):
		return ErrDuplicateEmail
	case errors.Is(err, ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	default:
		return fmt.Errorf("%w: failed to %s: %w", ErrStorage, op, err)
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func mapModelToDBProfile(p *Profile) *database.Profile {
	return &database.Profile{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		EmailKey:  EmailKey(p.Email),
		SearchKey: p.searchKey(),
		Phone:     cloneString(p.Phone),
		LinkedIn:  cloneString(p.LinkedIn),
		GitHub:    cloneString(p.GitHub),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// mapDBProfileToModel converts database model to domain model
func mapDBProfileToModel(row *database.Profile) *Profile {
	return &Profile{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		Phone:     row.Phone,
		LinkedIn:  row.LinkedIn,
		GitHub:    row.GitHub,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

func mapDBProfilesToModel(rows []database.Profile) []*Profile {
	result := make([]*Profile, 0, len(rows))
	for i := range rows {
		result = append(result, mapDBProfileToModel(&rows[i]))
	}
	return result
}
