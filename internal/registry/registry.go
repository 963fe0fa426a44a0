package registry

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/anonrelay/backend/internal/models"
	"github.com/anonrelay/backend/internal/profanity"
)

// UserStore is the storage contract for user profiles. Display-name and
// sequence-number uniqueness are enforced by storage constraints, not just
// here, because concurrent registrations race.
type UserStore interface {
	Get(userID int64) (*models.UserProfile, error)
	Create(userID int64, rawUsername string) (*models.UserProfile, error)
	UpdateDisplayName(userID int64, name string) error
	SetBanned(userID int64, banned bool) error
	IncrementMessageCount(userID int64) error
	Stats() (models.UserStats, error)
}

// Screener screens candidate display names for profanity
type Screener interface {
	Screen(text string) profanity.ScreenResult
}

// Letters of the supported scripts plus spaces; ZWNJ is part of written Persian.
var nameChars = regexp.MustCompile(`^[\p{Latin}\x{0600}-\x{06FF}\x{200C} ]+$`)

// reservedSubstrings may not appear anywhere in a display name
var reservedSubstrings = []string{"admin", "ادمین", "مدیر", "bot", "ربات", "channel", "کانال"}

// Registry owns user profiles: registration with sequential default names,
// the first-customization-wins display-name policy, and the ban gate.
type Registry struct {
	store    UserStore
	screener Screener
	minLen   int
	maxLen   int

	cache *lru.Cache[int64, models.UserProfile]
}

func New(store UserStore, screener Screener, minLen, maxLen, cacheSize int) (*Registry, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New[int64, models.UserProfile](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile cache: %w", err)
	}
	return &Registry{
		store:    store,
		screener: screener,
		minLen:   minLen,
		maxLen:   maxLen,
		cache:    cache,
	}, nil
}

// Register creates a profile on first contact and is idempotent afterwards:
// an existing profile is returned unchanged, keeping sequence numbers stable.
func (r *Registry) Register(userID int64, rawUsername string) (*models.UserProfile, error) {
	profile, err := r.store.Create(userID, rawUsername)
	if err != nil {
		return nil, err
	}
	r.cache.Add(userID, *profile)
	return profile, nil
}

// Get returns a profile, serving repeat lookups from the LRU cache
func (r *Registry) Get(userID int64) (*models.UserProfile, error) {
	if cached, ok := r.cache.Get(userID); ok {
		clone := cached
		return &clone, nil
	}
	profile, err := r.store.Get(userID)
	if err != nil {
		return nil, err
	}
	r.cache.Add(userID, *profile)
	return profile, nil
}

// SetDisplayName applies the validation chain, then claims the name. Once a
// user holds a non-default name the call fails fast without touching
// storage; the store repeats the check conditionally on write, so of two
// concurrent customizations exactly one lands. First customization wins.
func (r *Registry) SetDisplayName(userID int64, desired string) error {
	desired = strings.TrimSpace(desired)

	length := utf8.RuneCountInString(desired)
	if length < r.minLen || length > r.maxLen {
		return fmt.Errorf("%w: must be %d-%d characters", models.ErrInvalidName, r.minLen, r.maxLen)
	}
	if !nameChars.MatchString(desired) {
		return fmt.Errorf("%w: letters and spaces only", models.ErrInvalidName)
	}

	lower := strings.ToLower(desired)
	for _, reserved := range reservedSubstrings {
		if strings.Contains(lower, reserved) {
			return fmt.Errorf("%w: contains a reserved word", models.ErrInvalidName)
		}
	}

	if verdict := r.screener.Screen(desired); verdict.Flagged {
		return fmt.Errorf("%w: contains inappropriate language", models.ErrInvalidName)
	}

	profile, err := r.store.Get(userID)
	if err != nil {
		return err
	}
	if profile.HasCustomName() {
		return models.ErrNameImmutable
	}

	if err := r.store.UpdateDisplayName(userID, desired); err != nil {
		return err
	}
	r.cache.Remove(userID)
	return nil
}

// IsBanned reports the submission gate; checked before any other work
func (r *Registry) IsBanned(userID int64) (bool, error) {
	profile, err := r.Get(userID)
	if err != nil {
		return false, err
	}
	return profile.Banned, nil
}

// Ban blocks all further submissions from the user
func (r *Registry) Ban(userID int64) error {
	if err := r.store.SetBanned(userID, true); err != nil {
		return err
	}
	r.cache.Remove(userID)
	return nil
}

// Unban lifts the submission gate
func (r *Registry) Unban(userID int64) error {
	if err := r.store.SetBanned(userID, false); err != nil {
		return err
	}
	r.cache.Remove(userID)
	return nil
}

// IncrementMessageCount bumps the accepted-submission counter
func (r *Registry) IncrementMessageCount(userID int64) error {
	if err := r.store.IncrementMessageCount(userID); err != nil {
		return err
	}
	r.cache.Remove(userID)
	return nil
}

// Stats aggregates registry counters
func (r *Registry) Stats() (models.UserStats, error) {
	return r.store.Stats()
}
