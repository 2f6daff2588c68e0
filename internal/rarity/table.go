package rarity

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/validation"
)

// ValueRange bounds the credit value sampled for a rarity tier.
type ValueRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// TableDef is the JSON shape of one pack's distribution.
type TableDef struct {
	Weights map[domain.Rarity]int        `json:"weights"`
	Values  map[domain.Rarity]ValueRange `json:"values"`
}

// Config represents the JSON configuration for rarity tables
type Config struct {
	Version     string              `json:"version"`
	Description string              `json:"description,omitempty"`
	Tables      map[string]TableDef `json:"tables"`
}

// weightEntry is one resolved tier in a flattened pool.
type weightEntry struct {
	Rarity      domain.Rarity
	Weight      int
	CumulWeight int // cumulative weight up to and including this entry
}

// flatTable is the pre-computed runtime representation of one pack's
// distribution: entries sorted by tier rank with cumulative weights.
type flatTable struct {
	Entries     []weightEntry
	TotalWeight int
	Values      map[domain.Rarity]ValueRange
}

// Table maps pack identifiers to rarity distributions and value ranges.
// Built once at startup, read-only thereafter.
type Table interface {
	// WeightsFor returns the raw rarity weights for a pack. Weights are
	// non-negative and need not sum to 1; callers normalize.
	WeightsFor(packID string) (map[domain.Rarity]int, error)
	// ValueRangeFor returns the [min, max] credit value for a rarity in a pack.
	ValueRangeFor(packID string, r domain.Rarity) (ValueRange, error)
	// Draw picks a rarity by weighted roll in [0, 1), optionally excluding
	// tiers (renormalization for exhausted catalogs).
	Draw(packID string, roll float64, exclude map[domain.Rarity]bool) (domain.Rarity, error)
}

type table struct {
	flat map[string]*flatTable
}

// Load reads, validates, and flattens the rarity table configuration.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rarity tables file: %w", err)
	}

	sv := validation.NewSchemaValidator()
	if err := sv.ValidateBytes(data, TablesSchemaPath); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse rarity tables: %w", err)
	}

	return New(&config)
}

// New builds a Table from an already-parsed config.
func New(config *Config) (Table, error) {
	if len(config.Tables) == 0 {
		return nil, fmt.Errorf("%w: no rarity tables defined", domain.ErrInvalidConfig)
	}

	flat := make(map[string]*flatTable, len(config.Tables))
	for packID, def := range config.Tables {
		ft, err := buildFlatTable(def)
		if err != nil {
			return nil, fmt.Errorf("pack %q: %w", packID, err)
		}
		flat[packID] = ft
	}

	return &table{flat: flat}, nil
}

// buildFlatTable resolves a TableDef into a flatTable with cumulative weights.
func buildFlatTable(def TableDef) (*flatTable, error) {
	if len(def.Weights) == 0 {
		return nil, fmt.Errorf("%w: no rarity weights", domain.ErrInvalidConfig)
	}

	ft := &flatTable{Values: make(map[domain.Rarity]ValueRange, len(def.Values))}

	// Deterministic entry order: ascending tier rank.
	rarities := make([]domain.Rarity, 0, len(def.Weights))
	for r := range def.Weights {
		if !r.IsValid() {
			return nil, fmt.Errorf("%w: unknown rarity %q", domain.ErrInvalidConfig, r)
		}
		rarities = append(rarities, r)
	}
	sort.Slice(rarities, func(i, j int) bool { return rarities[i].Rank() < rarities[j].Rank() })

	for _, r := range rarities {
		w := def.Weights[r]
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight for %s", domain.ErrInvalidConfig, r)
		}
		if w == 0 {
			continue
		}
		ft.TotalWeight += w
		ft.Entries = append(ft.Entries, weightEntry{
			Rarity:      r,
			Weight:      w,
			CumulWeight: ft.TotalWeight,
		})
	}

	if len(ft.Entries) == 0 || ft.TotalWeight == 0 {
		return nil, fmt.Errorf("%w: table is empty after expansion", domain.ErrInvalidConfig)
	}

	for r, vr := range def.Values {
		if !r.IsValid() {
			return nil, fmt.Errorf("%w: value range for unknown rarity %q", domain.ErrInvalidConfig, r)
		}
		if vr.Min < 0 || vr.Max < vr.Min {
			return nil, fmt.Errorf("%w: bad value range [%d, %d] for %s", domain.ErrInvalidConfig, vr.Min, vr.Max, r)
		}
		ft.Values[r] = vr
	}

	// Every weighted tier needs a value range or generation would have
	// nothing to sample from.
	for _, e := range ft.Entries {
		if _, ok := ft.Values[e.Rarity]; !ok {
			return nil, fmt.Errorf("%w: missing value range for weighted rarity %s", domain.ErrInvalidConfig, e.Rarity)
		}
	}

	return ft, nil
}

func (t *table) WeightsFor(packID string) (map[domain.Rarity]int, error) {
	ft, ok := t.flat[packID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownPack, packID)
	}

	weights := make(map[domain.Rarity]int, len(ft.Entries))
	for _, e := range ft.Entries {
		weights[e.Rarity] = e.Weight
	}
	return weights, nil
}

func (t *table) ValueRangeFor(packID string, r domain.Rarity) (ValueRange, error) {
	ft, ok := t.flat[packID]
	if !ok {
		return ValueRange{}, fmt.Errorf("%w: %s", domain.ErrUnknownPack, packID)
	}
	vr, ok := ft.Values[r]
	if !ok {
		return ValueRange{}, fmt.Errorf("%w: no value range for rarity %s in pack %s", domain.ErrInvalidConfig, r, packID)
	}
	return vr, nil
}

func (t *table) Draw(packID string, roll float64, exclude map[domain.Rarity]bool) (domain.Rarity, error) {
	ft, ok := t.flat[packID]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownPack, packID)
	}

	if len(exclude) == 0 {
		return selectRarity(ft.Entries, ft.TotalWeight, roll), nil
	}

	// Renormalize over the remaining tiers.
	entries := make([]weightEntry, 0, len(ft.Entries))
	total := 0
	for _, e := range ft.Entries {
		if exclude[e.Rarity] {
			continue
		}
		total += e.Weight
		entries = append(entries, weightEntry{Rarity: e.Rarity, Weight: e.Weight, CumulWeight: total})
	}
	if len(entries) == 0 || total == 0 {
		return "", fmt.Errorf("%w: all rarities excluded for pack %s", domain.ErrInvalidConfig, packID)
	}

	return selectRarity(entries, total, roll), nil
}

// selectRarity returns the tier chosen by a weighted roll in [0, 1),
// using binary search over cumulative weights.
func selectRarity(entries []weightEntry, totalWeight int, roll float64) domain.Rarity {
	target := int(roll * float64(totalWeight))
	lo, hi := 0, len(entries)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if entries[mid].CumulWeight <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return entries[lo].Rarity
}
