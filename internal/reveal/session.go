// Package reveal implements the pack-opening state machine. A Session is a
// plain value object with no I/O so reveal flows are deterministic to test.
package reveal

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/packworks/packworks/internal/domain"
)

// State represents the lifecycle phase of a reveal session.
type State string

const (
	StateClosed    State = "CLOSED"
	StateRevealing State = "REVEALING"
	StateComplete  State = "COMPLETE"
)

// Session tracks the reveal of one opened pack. Cards are ordered ascending
// by rarity so commons show first and the rarest pull lands last. Skipping
// affects viewing only: the full card list is always delivered on completion.
// Safe for concurrent use by multiple request handlers.
type Session struct {
	mu            sync.Mutex
	id            string
	userID        string
	packID        string
	orderedCards  []domain.Card
	currentIndex  int
	state         State
	skippedToRare bool
}

// NewSession builds a session over the generated cards. Ties within a rarity
// keep generator order (stable sort) so seeded runs reproduce exactly.
func NewSession(userID, packID string, cards []domain.Card) *Session {
	ordered := make([]domain.Card, len(cards))
	copy(ordered, cards)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rarity.Rank() < ordered[j].Rarity.Rank()
	})

	return &Session{
		id:           uuid.NewString(),
		userID:       userID,
		packID:       packID,
		orderedCards: ordered,
		currentIndex: -1,
		state:        StateClosed,
	}
}

// Start transitions Closed to Revealing at the first card.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateClosed {
		return domain.ErrRevealNotActive
	}
	if len(s.orderedCards) == 0 {
		return domain.ErrEmptyPack
	}
	s.state = StateRevealing
	s.currentIndex = 0
	return nil
}

// Next advances to the following card, or completes the session when the
// last card has been shown.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRevealing(); err != nil {
		return err
	}
	if s.currentIndex+1 < len(s.orderedCards) {
		s.currentIndex++
		return nil
	}
	s.complete()
	return nil
}

// SkipToRare jumps ahead to the next rare-or-better card. When none remain
// it behaves as SkipAll.
func (s *Session) SkipToRare() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRevealing(); err != nil {
		return err
	}
	s.skippedToRare = true
	for i := s.currentIndex + 1; i < len(s.orderedCards); i++ {
		if s.orderedCards[i].Rarity.AtLeast(domain.RarityRare) {
			s.currentIndex = i
			return nil
		}
	}
	s.complete()
	return nil
}

// SkipAll ends the reveal immediately. Unseen cards are not lost; they are
// still part of the delivered list.
func (s *Session) SkipAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRevealing(); err != nil {
		return err
	}
	s.skippedToRare = true
	s.complete()
	return nil
}

func (s *Session) requireRevealing() error {
	switch s.state {
	case StateRevealing:
		return nil
	case StateComplete:
		return domain.ErrRevealComplete
	default:
		return domain.ErrRevealNotActive
	}
}

func (s *Session) complete() {
	s.state = StateComplete
	s.currentIndex = len(s.orderedCards)
}

// Current returns the card at the reveal cursor. The bool is false outside
// the Revealing state.
func (s *Session) Current() (domain.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRevealing {
		return domain.Card{}, false
	}
	return s.orderedCards[s.currentIndex], true
}

// Delivered returns every card in reveal order, regardless of how much of
// the session was actually viewed.
func (s *Session) Delivered() []domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Card, len(s.orderedCards))
	copy(out, s.orderedCards)
	return out
}

// Progress reports the reveal cursor and total card count. The cursor is -1
// before Start and equals the total once complete.
func (s *Session) Progress() (current, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentIndex, len(s.orderedCards)
}

func (s *Session) ID() string     { return s.id }
func (s *Session) UserID() string { return s.userID }
func (s *Session) PackID() string { return s.packID }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) SkippedToRare() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skippedToRare
}
