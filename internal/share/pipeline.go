// Package share turns contact details into scannable QR payloads:
// vCard text, then a QR symbol, then a PNG and its base64 form.
package share

import (
	"context"
	"fmt"
	"strings"

	"github.com/redmonkez12/qrprofile/internal/logging"
	"github.com/redmonkez12/qrprofile/internal/profile"
	"github.com/redmonkez12/qrprofile/internal/qrcode"
	"github.com/redmonkez12/qrprofile/internal/qrimage"
	"github.com/redmonkez12/qrprofile/internal/vcard"
)

// ProfileSource is the only storage access the pipeline needs.
type ProfileSource interface {
	GetByID(ctx context.Context, id int64) (*profile.Profile, error)
}

// Payload is one rendered contact code.
type Payload struct {
	VCard   string
	Version int
	Level   qrcode.Level
	Image   qrimage.Image
}

// Pipeline renders contact codes. It holds no per-call state and is safe for
// concurrent use. The cache, when set, only saves work.
type Pipeline struct {
	level      qrcode.Level
	moduleSize int
	cache      Cache
	logger     *logging.Logger
}

// NewPipeline creates a pipeline encoding at level with moduleSize pixels per
// module by default. cache may be nil.
func NewPipeline(level qrcode.Level, moduleSize int, cache Cache, logger *logging.Logger) *Pipeline {
	if moduleSize <= 0 {
		moduleSize = qrimage.DefaultModuleSize
	}
	return &Pipeline{
		level:      level,
		moduleSize: moduleSize,
		cache:      cache,
		logger:     logger,
	}
}

// Level returns the error correction level the pipeline encodes at.
func (p *Pipeline) Level() qrcode.Level {
	return p.level
}

// GenerateContactCode returns the base64 PNG of the contact's QR code.
// A moduleSize of 0 selects the pipeline default.
func (p *Pipeline) GenerateContactCode(ctx context.Context, c vcard.Contact, moduleSize int) (string, error) {
	payload, err := p.Generate(ctx, c, moduleSize)
	if err != nil {
		return "", err
	}
	return payload.Image.Base64, nil
}

// Generate runs the full pipeline for c.
func (p *Pipeline) Generate(ctx context.Context, c vcard.Contact, moduleSize int) (*Payload, error) {
	if err := checkContact(c); err != nil {
		return nil, err
	}
	if moduleSize == 0 {
		moduleSize = p.moduleSize
	}

	text := vcard.Format(c)
	key := cacheKey(text, p.level, moduleSize)

	if p.cache != nil {
		cached, ok, err := p.cache.Get(ctx, key)
		if err != nil {
			p.logger.Warn("qr cache read failed", "error", err.Error())
		} else if ok {
			return cached, nil
		}
	}

	sym, err := qrcode.Encode(text, p.level)
	if err != nil {
		return nil, fmt.Errorf("encode contact card: %w", err)
	}

	img, err := qrimage.Render(sym, moduleSize)
	if err != nil {
		return nil, err
	}

	payload := &Payload{
		VCard:   text,
		Version: sym.Version,
		Level:   sym.Level,
		Image:   img,
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, payload); err != nil {
			p.logger.Warn("qr cache write failed", "error", err.Error())
		}
	}

	return payload, nil
}

// ForProfile renders a stored profile. The profile is only read.
func (p *Pipeline) ForProfile(ctx context.Context, prof *profile.Profile, moduleSize int) (*Payload, error) {
	return p.Generate(ctx, prof.Contact(), moduleSize)
}

// ByID loads the profile from src and renders it.
func (p *Pipeline) ByID(ctx context.Context, src ProfileSource, id int64, moduleSize int) (*Payload, error) {
	prof, err := src.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ForProfile(ctx, prof, moduleSize)
}

func checkContact(c vcard.Contact) error {
	fields := map[string]string{}
	if strings.TrimSpace(c.FirstName) == "" {
		fields["first_name"] = "is required"
	}
	if strings.TrimSpace(c.LastName) == "" {
		fields["last_name"] = "is required"
	}
	if strings.TrimSpace(c.Email) == "" {
		fields["email"] = "is required"
	}
	if len(fields) > 0 {
		return profile.NewValidationError("validation failed", fields)
	}
	return nil
}
