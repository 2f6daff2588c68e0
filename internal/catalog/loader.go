package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/validation"
)

// Sentinel errors for catalog loading
var (
	ErrDuplicateCardName = errors.New("duplicate card name")
)

// Def represents a single card definition in the JSON.
// Naming follows the two-layer convention: a stable internal name
// (e.g. "ember_sprite") plus an optional display name; when the display
// name is omitted it is derived by title-casing the internal name.
type Def struct {
	InternalName string `json:"internal_name"`
	DisplayName  string `json:"display_name,omitempty"`
	Image        string `json:"image"`
}

// Config represents the JSON configuration for the card catalog.
// Cards are keyed by pack, then by rarity tier.
type Config struct {
	Version     string                             `json:"version"`
	Description string                             `json:"description,omitempty"`
	Packs       map[string]map[domain.Rarity][]Def `json:"packs"`
}

// Catalog answers which card identities can be drawn for a pack and tier.
type Catalog interface {
	// EntriesFor returns the card definitions for a pack and rarity.
	// An empty slice means the tier has no printable cards in that pack.
	EntriesFor(packID string, r domain.Rarity) []Def
	// HasEntries reports whether a pack has any cards at the given tier.
	HasEntries(packID string, r domain.Rarity) bool
	// PackIDs returns all pack identifiers present in the catalog.
	PackIDs() []string
}

type catalog struct {
	packs map[string]map[domain.Rarity][]Def
}

var titleCaser = cases.Title(language.English)

// Load reads, validates, and indexes the card catalog.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card catalog file: %w", err)
	}

	sv := validation.NewSchemaValidator()
	if err := sv.ValidateBytes(data, CatalogSchemaPath); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse card catalog: %w", err)
	}

	return New(&config)
}

// New builds a Catalog from an already-parsed config.
func New(config *Config) (Catalog, error) {
	if len(config.Packs) == 0 {
		return nil, fmt.Errorf("%w: no packs in card catalog", domain.ErrInvalidConfig)
	}

	c := &catalog{packs: make(map[string]map[domain.Rarity][]Def, len(config.Packs))}

	for packID, tiers := range config.Packs {
		seen := make(map[string]bool)
		indexed := make(map[domain.Rarity][]Def, len(tiers))

		for r, defs := range tiers {
			if !r.IsValid() {
				return nil, fmt.Errorf("%w: pack %q has unknown rarity %q", domain.ErrInvalidConfig, packID, r)
			}

			out := make([]Def, 0, len(defs))
			for _, def := range defs {
				if def.InternalName == "" {
					return nil, fmt.Errorf("%w: pack %q has a card with no internal name", domain.ErrInvalidConfig, packID)
				}
				if seen[def.InternalName] {
					return nil, fmt.Errorf("%w: %q in pack %q", ErrDuplicateCardName, def.InternalName, packID)
				}
				seen[def.InternalName] = true

				if def.DisplayName == "" {
					def.DisplayName = deriveDisplayName(def.InternalName)
				}
				out = append(out, def)
			}
			indexed[r] = out
		}

		c.packs[packID] = indexed
	}

	return c, nil
}

// deriveDisplayName turns "ember_sprite" into "Ember Sprite".
func deriveDisplayName(internal string) string {
	return titleCaser.String(strings.ReplaceAll(internal, "_", " "))
}

func (c *catalog) EntriesFor(packID string, r domain.Rarity) []Def {
	tiers, ok := c.packs[packID]
	if !ok {
		return nil
	}
	return tiers[r]
}

func (c *catalog) HasEntries(packID string, r domain.Rarity) bool {
	return len(c.EntriesFor(packID, r)) > 0
}

func (c *catalog) PackIDs() []string {
	ids := make([]string, 0, len(c.packs))
	for id := range c.packs {
		ids = append(ids, id)
	}
	return ids
}
