package profile

import (
	"context"
	"errors"

	"github.com/redmonkez12/qrprofile/internal/logging"
)

// Service validates profile changes before they reach the store.
type Service struct {
	store  Store
	logger *logging.Logger
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Create validates in and stores a new profile.
func (s *Service) Create(ctx context.Context, in Input) (*Profile, error) {
	in, err := in.Validate()
	if err != nil {
		return nil, err
	}

	p, err := s.store.Create(ctx, in.Profile())
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			s.logger.Warn("profile create rejected: duplicate email", "email", in.Email)
		}
		return nil, err
	}

	s.logger.Info("profile created", "profile_id", p.ID)
	return p, nil
}

// GetByID returns a profile by ID.
func (s *Service) GetByID(ctx context.Context, id int64) (*Profile, error) {
	return s.store.GetByID(ctx, id)
}

// List returns all profiles, or those matching term when it is not blank.
func (s *Service) List(ctx context.Context, term string) ([]*Profile, error) {
	return s.store.Search(ctx, term)
}

// Update validates in and replaces the profile's fields. Unlike Store.Update
// it rejects an email that already belongs to a different profile.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*Profile, error) {
	in, err := in.Validate()
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, err
	}

	available, err := s.EmailAvailable(ctx, in.Email, id)
	if err != nil {
		return nil, err
	}
	if !available {
		s.logger.Warn("profile update rejected: duplicate email", "profile_id", id, "email", in.Email)
		return nil, ErrDuplicateEmail
	}

	p := in.Profile()
	p.ID = id
	updated, err := s.store.Update(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "profile_id", id)
	return updated, nil
}

// EmailAvailable reports whether email is free for the profile exceptID.
// Pass 0 to check against every profile.
func (s *Service) EmailAvailable(ctx context.Context, email string, exceptID int64) (bool, error) {
	existing, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID == exceptID, nil
}

// Delete removes a profile and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("profile deleted", "profile_id", id)
	}
	return deleted, nil
}
