package generator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/packworks/packworks/internal/catalog"
	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/logger"
	"github.com/packworks/packworks/internal/rarity"
	"github.com/packworks/packworks/internal/utils"
)

// Service defines the card generation interface
type Service interface {
	// Generate produces exactly pack.CardCount cards honoring the pack's
	// guarantees. Expiry is left unset: the clock starts when the cards
	// enter a collection, not when a pack is previewed.
	Generate(ctx context.Context, pack domain.Pack) ([]domain.Card, error)
}

type service struct {
	table rarity.Table
	cat   catalog.Catalog
	rnd   func() float64 // For rolling RNG
}

// NewService creates a new generator service
func NewService(table rarity.Table, cat catalog.Catalog) Service {
	return &service{
		table: table,
		cat:   cat,
		rnd:   utils.RandomFloat,
	}
}

// NewServiceWithRand creates a generator with an injected random source.
// Tests use this with a seeded PRNG for reproducible draws.
func NewServiceWithRand(table rarity.Table, cat catalog.Catalog, rnd func() float64) Service {
	return &service{table: table, cat: cat, rnd: rnd}
}

func (s *service) Generate(ctx context.Context, pack domain.Pack) ([]domain.Card, error) {
	log := logger.FromContext(ctx)

	if err := s.validatePack(pack); err != nil {
		return nil, err
	}

	cards := make([]domain.Card, 0, pack.CardCount)

	// Guaranteed slots first.
	for _, g := range pack.Guarantees {
		for i := 0; i < g.Count; i++ {
			card, err := s.drawCard(pack.ID, g.Rarity)
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
		}
	}

	// Fill the remaining slots by weighted draw over the full table,
	// renormalized so a tier with an exhausted catalog is never drawn.
	exclude := s.emptyTiers(pack.ID)
	for len(cards) < pack.CardCount {
		r, err := s.table.Draw(pack.ID, s.rnd(), exclude)
		if err != nil {
			return nil, err
		}
		card, err := s.drawCard(pack.ID, r)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	log.Debug(LogMsgPackGenerated, LogFieldPack, pack.ID, LogFieldCards, len(cards))
	return cards, nil
}

// validatePack fails fast on configuration errors rather than silently
// truncating guarantees.
func (s *service) validatePack(pack domain.Pack) error {
	if pack.CardCount <= 0 {
		return fmt.Errorf("%w: pack %s has card count %d", domain.ErrInvalidConfig, pack.ID, pack.CardCount)
	}
	if total := pack.GuaranteedTotal(); total > pack.CardCount {
		return fmt.Errorf("%w: pack %s guarantees %d cards but holds %d", domain.ErrInvalidConfig, pack.ID, total, pack.CardCount)
	}
	for _, g := range pack.Guarantees {
		if !g.Rarity.IsValid() {
			return fmt.Errorf("%w: pack %s guarantees unknown rarity %q", domain.ErrInvalidConfig, pack.ID, g.Rarity)
		}
		if g.Count < 0 {
			return fmt.Errorf("%w: pack %s has negative guarantee for %s", domain.ErrInvalidConfig, pack.ID, g.Rarity)
		}
		if g.Count > 0 && !s.cat.HasEntries(pack.ID, g.Rarity) {
			return fmt.Errorf("%w: pack %s guarantees %s but catalog has no such cards", domain.ErrInvalidConfig, pack.ID, g.Rarity)
		}
	}
	return nil
}

// emptyTiers returns the rarities the weighted fill must skip because the
// pack's catalog holds no cards at that tier.
func (s *service) emptyTiers(packID string) map[domain.Rarity]bool {
	exclude := make(map[domain.Rarity]bool)
	for _, r := range domain.Rarities {
		if !s.cat.HasEntries(packID, r) {
			exclude[r] = true
		}
	}
	if len(exclude) == 0 {
		return nil
	}
	return exclude
}

// drawCard materializes one card at the given tier: identity uniform over
// the tier's catalog, value uniform within the tier's range, finish rolled
// independently, fresh unique id.
func (s *service) drawCard(packID string, r domain.Rarity) (domain.Card, error) {
	entries := s.cat.EntriesFor(packID, r)
	if len(entries) == 0 {
		return domain.Card{}, fmt.Errorf("%w: no catalog entries for %s in pack %s", domain.ErrInvalidConfig, r, packID)
	}
	def := entries[utils.IndexFromRoll(s.rnd(), len(entries))]

	vr, err := s.table.ValueRangeFor(packID, r)
	if err != nil {
		return domain.Card{}, err
	}

	return domain.Card{
		ID:     uuid.NewString(),
		Name:   def.DisplayName,
		Image:  def.Image,
		Rarity: r,
		Finish: rollFinish(s.rnd()),
		Value:  vr.Min + utils.IndexFromRoll(s.rnd(), vr.Max-vr.Min+1),
		PackID: packID,
	}, nil
}
