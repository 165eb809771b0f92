package database

import (
	"time"

	"github.com/uptrace/bun"
)

// Profile is the persisted shape of a contact profile. EmailKey holds the
// case-folded email and carries the uniqueness constraint. SearchKey holds
// the case-folded searchable fields.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:p"`

	ID        int64     `bun:"id,pk,autoincrement"`
	FirstName string    `bun:"first_name,notnull"`
	LastName  string    `bun:"last_name,notnull"`
	Email     string    `bun:"email,notnull"`
	EmailKey  string    `bun:"email_key,notnull,unique"`
	SearchKey string    `bun:"search_key,notnull"`
	Phone     *string   `bun:"phone"`
	LinkedIn  *string   `bun:"linkedin"`
	GitHub    *string   `bun:"github"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
