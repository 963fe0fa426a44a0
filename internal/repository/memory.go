package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anonrelay/backend/internal/models"
)

// In-memory store implementations. They mirror the Postgres repositories'
// contracts, including the constraint-level uniqueness guarantees, and back
// the package tests.

type MemoryUserStore struct {
	mu       sync.Mutex
	profiles map[int64]*models.UserProfile
	names    map[string]int64
	lastSeq  int64
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		profiles: make(map[int64]*models.UserProfile),
		names:    make(map[string]int64),
	}
}

func (s *MemoryUserStore) Get(userID int64) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *profile
	return &clone, nil
}

func (s *MemoryUserStore) Create(userID int64, rawUsername string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profile, ok := s.profiles[userID]; ok {
		clone := *profile
		return &clone, nil
	}

	s.lastSeq++
	profile := &models.UserProfile{
		UserID:         userID,
		RawUsername:    rawUsername,
		DisplayName:    models.DefaultDisplayName(s.lastSeq),
		SequenceNumber: s.lastSeq,
		RegisteredAt:   time.Now(),
	}
	s.profiles[userID] = profile
	s.names[profile.DisplayName] = userID

	clone := *profile
	return &clone, nil
}

func (s *MemoryUserStore) UpdateDisplayName(userID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return models.ErrNotFound
	}
	if owner, taken := s.names[name]; taken && owner != userID {
		return models.ErrNameTaken
	}
	if profile.HasCustomName() {
		return models.ErrNameImmutable
	}

	delete(s.names, profile.DisplayName)
	profile.DisplayName = name
	s.names[name] = userID
	return nil
}

func (s *MemoryUserStore) SetBanned(userID int64, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return models.ErrNotFound
	}
	profile.Banned = banned
	return nil
}

func (s *MemoryUserStore) IncrementMessageCount(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return models.ErrNotFound
	}
	profile.MessageCount++
	return nil
}

func (s *MemoryUserStore) Stats() (models.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.UserStats{}
	for _, profile := range s.profiles {
		stats.TotalUsers++
		stats.TotalMessages += profile.MessageCount
		if profile.HasCustomName() {
			stats.CustomNames++
		} else {
			stats.DefaultNames++
		}
	}
	return stats, nil
}

type MemoryItemStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.ModerationItem
	order []uuid.UUID
}

func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{items: make(map[uuid.UUID]*models.ModerationItem)}
}

func (s *MemoryItemStore) InsertPending(item *models.ModerationItem, ceiling, perSubmitter int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, mine := 0, 0
	for _, existing := range s.items {
		if !existing.Pending() {
			continue
		}
		pending++
		if existing.SubmitterID == item.SubmitterID {
			mine++
		}
	}
	if mine >= perSubmitter {
		return models.ErrSubmitterQuota
	}
	if pending >= ceiling {
		return models.ErrQueueFull
	}

	item.Decision = models.DecisionUnset
	clone := *item
	s.items[item.ID] = &clone
	s.order = append(s.order, item.ID)
	return nil
}

func (s *MemoryItemStore) Decide(id uuid.UUID, approve bool, adminID int64, at time.Time) (*models.ModerationItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if !item.Pending() {
		return nil, models.ErrAlreadyDecided
	}

	item.Decision = models.DecisionRejected
	if approve {
		item.Decision = models.DecisionApproved
	}
	item.DecidedAt = &at
	item.DecidedBy = &adminID

	clone := *item
	return &clone, nil
}

func (s *MemoryItemStore) ListPending() ([]models.ModerationItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := []models.ModerationItem{}
	for _, id := range s.order {
		item := s.items[id]
		if item != nil && item.Pending() {
			items = append(items, *item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (s *MemoryItemStore) PurgeDecidedBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	kept := s.order[:0]
	for _, id := range s.order {
		item := s.items[id]
		if item != nil && !item.Pending() && item.CreatedAt.Before(cutoff) {
			delete(s.items, id)
			purged++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return purged, nil
}

func (s *MemoryItemStore) DecideAllPending(approve bool, adminID int64, at time.Time) ([]models.ModerationItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decision := models.DecisionRejected
	if approve {
		decision = models.DecisionApproved
	}

	decided := []models.ModerationItem{}
	for _, id := range s.order {
		item := s.items[id]
		if item == nil || !item.Pending() {
			continue
		}
		item.Decision = decision
		decidedAt := at
		item.DecidedAt = &decidedAt
		adminCopy := adminID
		item.DecidedBy = &adminCopy
		decided = append(decided, *item)
	}
	sort.SliceStable(decided, func(i, j int) bool { return decided[i].CreatedAt.Before(decided[j].CreatedAt) })
	return decided, nil
}

func (s *MemoryItemStore) Stats() (models.QueueStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.QueueStats{ByKind: make(map[models.ContentKind]int64)}
	for _, item := range s.items {
		stats.Total++
		stats.ByKind[item.Kind]++
		switch item.Decision {
		case models.DecisionApproved:
			stats.Approved++
		case models.DecisionRejected:
			stats.Rejected++
		default:
			stats.Pending++
			if stats.OldestPending == nil || item.CreatedAt.Before(*stats.OldestPending) {
				created := item.CreatedAt
				stats.OldestPending = &created
			}
		}
	}
	return stats, nil
}

type MemoryLexiconStore struct {
	mu    sync.Mutex
	words map[string]map[string]struct{}
}

func NewMemoryLexiconStore() *MemoryLexiconStore {
	return &MemoryLexiconStore{words: make(map[string]map[string]struct{})}
}

func (s *MemoryLexiconStore) Load() (map[string][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]string, len(s.words))
	for lang, set := range s.words {
		list := make([]string, 0, len(set))
		for w := range set {
			list = append(list, w)
		}
		sort.Strings(list)
		out[lang] = list
	}
	return out, nil
}

func (s *MemoryLexiconStore) Add(language, word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.words[language] == nil {
		s.words[language] = make(map[string]struct{})
	}
	s.words[language][word] = struct{}{}
	return nil
}

func (s *MemoryLexiconStore) Remove(language, word string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.words[language]
	if !ok {
		return false, nil
	}
	if _, present := set[word]; !present {
		return false, nil
	}
	delete(set, word)
	return true, nil
}
