// Package profile keeps the single business profile shown on every invoice.
package profile

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"billing/internal/logger"
	"billing/internal/store"
	"billing/pkg/models"
)

// Input is the data accepted by Save. Required fields are plain strings; a nil
// optional field keeps the value already stored.
type Input struct {
	Name         string
	BusinessName string
	Email        string
	Phone        *string
	Address      *string
	Logo         *string
}

// Manager reads and upserts the profile record.
type Manager struct {
	store store.Store
	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source for profile timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator sets the identifier source for new profiles.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// NewManager creates a profile manager over the given record store.
func NewManager(st store.Store, opts ...Option) *Manager {
	m := &Manager{
		store: st,
		now:   time.Now,
		newID: uuid.NewString,
		log:   logger.WithComponent("profile"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the stored profile, or nil when none has been saved.
func (m *Manager) Get() (*models.UserProfile, error) {
	const op = "profile.Get"

	raw, ok, err := m.store.Get(store.ProfileKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var p models.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		m.log.Error().Err(err).Msg("Failed to decode stored profile")
		return nil, fmt.Errorf("%s: %w: %v", op, ErrCorruptProfile, err)
	}
	return &p, nil
}

// Save creates the profile on first use and updates it afterwards. The
// identifier and creation time are assigned once; updatedAt is refreshed on
// every save.
func (m *Manager) Save(in Input) (models.UserProfile, error) {
	const op = "profile.Save"

	if err := validate(in); err != nil {
		return models.UserProfile{}, err
	}

	existing, err := m.Get()
	if err != nil {
		return models.UserProfile{}, err
	}

	ts := m.now().UTC()
	var p models.UserProfile
	if existing != nil {
		p = *existing
	} else {
		p = models.UserProfile{ID: m.newID(), CreatedAt: ts}
	}

	p.Name = strings.TrimSpace(in.Name)
	p.BusinessName = strings.TrimSpace(in.BusinessName)
	p.Email = strings.TrimSpace(in.Email)
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.Logo != nil {
		p.Logo = *in.Logo
	}
	p.UpdatedAt = ts

	data, err := json.Marshal(p)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("%s: encode profile: %w", op, err)
	}
	if err := m.store.Set(store.ProfileKey, string(data)); err != nil {
		m.log.Error().Err(err).Msg("Failed to write profile")
		return models.UserProfile{}, fmt.Errorf("%s: %w", op, err)
	}

	m.log.Info().
		Str("profile_id", p.ID).
		Bool("created", existing == nil).
		Msg("Profile saved")
	return p, nil
}

// Delete removes the stored profile. Deleting an absent profile succeeds.
func (m *Manager) Delete() error {
	if err := m.store.Remove(store.ProfileKey); err != nil {
		return fmt.Errorf("profile.Delete: %w", err)
	}
	m.log.Info().Msg("Profile deleted")
	return nil
}

func validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Value: in.Name, Message: "name is required"}
	}
	if strings.TrimSpace(in.BusinessName) == "" {
		return &ValidationError{Field: "businessName", Value: in.BusinessName, Message: "business name is required"}
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return &ValidationError{Field: "email", Value: in.Email, Message: "email is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Value: in.Email, Message: "email is not a valid address"}
	}
	if in.Logo != nil {
		if err := checkLogo(*in.Logo); err != nil {
			return err
		}
	}
	return nil
}
