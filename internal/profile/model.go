package profile

import (
	"strings"
	"time"

	"github.com/redmonkez12/qrprofile/internal/vcard"
)

// Profile is a stored contact profile.
type Profile struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	LinkedIn  *string   `json:"linkedin,omitempty"`
	GitHub    *string   `json:"github,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns "first last".
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// DisplayName returns "first last (email)".
func (p *Profile) DisplayName() string {
	return p.FullName() + " (" + p.Email + ")"
}

// Contact returns the fields that go on the contact card.
func (p *Profile) Contact() vcard.Contact {
	return vcard.Contact{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		LinkedIn:  p.LinkedIn,
		GitHub:    p.GitHub,
	}
}

// clone returns a deep copy so callers never share optional field storage
// with a store.
func (p *Profile) clone() *Profile {
	c := *p
	c.Phone = cloneString(p.Phone)
	c.LinkedIn = cloneString(p.LinkedIn)
	c.GitHub = cloneString(p.GitHub)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Input carries the caller-editable fields of a profile.
type Input struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	LinkedIn  *string `json:"linkedin,omitempty" validate:"omitempty,max=255,url,contains=linkedin.com"`
	GitHub    *string `json:"github,omitempty" validate:"omitempty,max=255,url,contains=github.com"`
}

// Normalize trims every field and turns blank optional fields into nil.
func (in Input) Normalize() Input {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = trimOptional(in.Phone)
	in.LinkedIn = trimOptional(in.LinkedIn)
	in.GitHub = trimOptional(in.GitHub)
	return in
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Profile converts the input into an unsaved profile.
func (in Input) Profile() Profile {
	return Profile{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     cloneString(in.Phone),
		LinkedIn:  cloneString(in.LinkedIn),
		GitHub:    cloneString(in.GitHub),
	}
}

// Contact converts the input into contact card fields.
func (in Input) Contact() vcard.Contact {
	p := in.Profile()
	return p.Contact()
}
