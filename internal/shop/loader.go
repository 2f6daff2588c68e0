// Package shop sells packs: it loads the purchasable pack definitions and
// runs the purchase flow that debits credits and generates cards.
package shop

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/validation"
)

// PacksConfig is the JSON shape of the pack definitions file.
type PacksConfig struct {
	Version     string                 `json:"version"`
	Description string                 `json:"description,omitempty"`
	Packs       map[string]domain.Pack `json:"packs"`
}

// Packs resolves pack identifiers to product descriptors.
type Packs interface {
	// Get returns the pack descriptor, or ErrUnknownPack.
	Get(packID string) (domain.Pack, error)
	// List returns all packs sorted by id.
	List() []domain.Pack
}

type packs struct {
	byID map[string]domain.Pack
}

// LoadPacks reads, validates, and indexes the pack definitions.
func LoadPacks(path string) (Packs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack definitions file: %w", err)
	}

	sv := validation.NewSchemaValidator()
	if err := sv.ValidateBytes(data, PacksSchemaPath); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config PacksConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse pack definitions: %w", err)
	}

	return NewPacks(&config)
}

// NewPacks builds a Packs index from an already-parsed config.
func NewPacks(config *PacksConfig) (Packs, error) {
	if len(config.Packs) == 0 {
		return nil, fmt.Errorf("%w: no pack definitions", domain.ErrInvalidConfig)
	}

	byID := make(map[string]domain.Pack, len(config.Packs))
	for id, pack := range config.Packs {
		pack.ID = id
		if pack.Price < 0 {
			return nil, fmt.Errorf("%w: pack %q has negative price", domain.ErrInvalidConfig, id)
		}
		if pack.CardCount <= 0 {
			return nil, fmt.Errorf("%w: pack %q has card count %d", domain.ErrInvalidConfig, id, pack.CardCount)
		}
		if total := pack.GuaranteedTotal(); total > pack.CardCount {
			return nil, fmt.Errorf("%w: pack %q guarantees %d cards but holds %d", domain.ErrInvalidConfig, id, total, pack.CardCount)
		}
		for _, g := range pack.Guarantees {
			if !g.Rarity.IsValid() {
				return nil, fmt.Errorf("%w: pack %q guarantees unknown rarity %q", domain.ErrInvalidConfig, id, g.Rarity)
			}
		}
		byID[id] = pack
	}

	return &packs{byID: byID}, nil
}

func (p *packs) Get(packID string) (domain.Pack, error) {
	pack, ok := p.byID[packID]
	if !ok {
		return domain.Pack{}, fmt.Errorf("%w: %s", domain.ErrUnknownPack, packID)
	}
	return pack, nil
}

func (p *packs) List() []domain.Pack {
	out := make([]domain.Pack, 0, len(p.byID))
	for _, pack := range p.byID {
		out = append(out, pack)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
