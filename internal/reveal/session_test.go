package reveal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packworks/packworks/internal/domain"
)

func card(id string, r domain.Rarity) domain.Card {
	return domain.Card{ID: id, Name: id, Rarity: r, Value: 10}
}

func TestNewSessionSortsAscendingByRarity(t *testing.T) {
	cards := []domain.Card{
		card("a", domain.RarityLegendary),
		card("b", domain.RarityCommon),
		card("c", domain.RarityRare),
		card("d", domain.RarityCommon),
	}

	s := NewSession("user-1", "starter", cards)

	ordered := s.Delivered()
	require.Len(t, ordered, 4)
	assert.Equal(t, "b", ordered[0].ID)
	assert.Equal(t, "d", ordered[1].ID) // stable: ties keep generator order
	assert.Equal(t, "c", ordered[2].ID)
	assert.Equal(t, "a", ordered[3].ID)
	assert.Equal(t, StateClosed, s.State())

	current, total := s.Progress()
	assert.Equal(t, -1, current)
	assert.Equal(t, 4, total)
}

func TestStartEmptyPack(t *testing.T) {
	s := NewSession("user-1", "starter", nil)

	err := s.Start()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyPack)
	assert.Equal(t, StateClosed, s.State())
}

func TestStartTwice(t *testing.T) {
	s := NewSession("user-1", "starter", []domain.Card{card("a", domain.RarityCommon)})

	require.NoError(t, s.Start())
	err := s.Start()
	assert.ErrorIs(t, err, domain.ErrRevealNotActive)
}

func TestSequentialRevealTerminatesInComplete(t *testing.T) {
	cards := []domain.Card{
		card("a", domain.RarityCommon),
		card("b", domain.RarityUncommon),
		card("c", domain.RarityRare),
	}
	s := NewSession("user-1", "starter", cards)

	require.NoError(t, s.Start())
	for i := 0; i < len(cards); i++ {
		_, ok := s.Current()
		assert.True(t, ok)
		require.NoError(t, s.Next())
	}

	assert.Equal(t, StateComplete, s.State())
	assert.False(t, s.SkippedToRare())

	_, ok := s.Current()
	assert.False(t, ok)

	// Delivered list is unchanged by how the reveal was viewed.
	assert.Len(t, s.Delivered(), 3)

	err := s.Next()
	assert.ErrorIs(t, err, domain.ErrRevealComplete)
}

func TestSkipToRare(t *testing.T) {
	cards := []domain.Card{
		card("a", domain.RarityCommon),
		card("b", domain.RarityCommon),
		card("c", domain.RarityLegendary),
	}
	s := NewSession("user-1", "starter", cards)

	require.NoError(t, s.Start())
	require.NoError(t, s.SkipToRare())

	current, _ := s.Progress()
	assert.Equal(t, 2, current)
	assert.True(t, s.SkippedToRare())

	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "c", got.ID)

	require.NoError(t, s.Next())
	assert.Equal(t, StateComplete, s.State())

	// All three cards are still delivered.
	delivered := s.Delivered()
	require.Len(t, delivered, 3)
	assert.Equal(t, "a", delivered[0].ID)
	assert.Equal(t, "b", delivered[1].ID)
	assert.Equal(t, "c", delivered[2].ID)
}

func TestSkipToRareWithNoRareBehavesAsSkipAll(t *testing.T) {
	cards := []domain.Card{
		card("a", domain.RarityCommon),
		card("b", domain.RarityUncommon),
	}
	s := NewSession("user-1", "starter", cards)

	require.NoError(t, s.Start())
	require.NoError(t, s.SkipToRare())

	assert.Equal(t, StateComplete, s.State())
	assert.True(t, s.SkippedToRare())
	assert.Len(t, s.Delivered(), 2)
}

func TestSkipAll(t *testing.T) {
	cards := []domain.Card{
		card("a", domain.RarityCommon),
		card("b", domain.RarityRare),
		card("c", domain.RarityMythic),
	}
	s := NewSession("user-1", "starter", cards)

	require.NoError(t, s.Start())
	require.NoError(t, s.SkipAll())

	assert.Equal(t, StateComplete, s.State())
	assert.True(t, s.SkippedToRare())
	assert.Len(t, s.Delivered(), 3)

	current, total := s.Progress()
	assert.Equal(t, total, current)
}

func TestTransitionsRequireActiveSession(t *testing.T) {
	s := NewSession("user-1", "starter", []domain.Card{card("a", domain.RarityCommon)})

	assert.ErrorIs(t, s.Next(), domain.ErrRevealNotActive)
	assert.ErrorIs(t, s.SkipToRare(), domain.ErrRevealNotActive)
	assert.ErrorIs(t, s.SkipAll(), domain.ErrRevealNotActive)

	require.NoError(t, s.Start())
	require.NoError(t, s.SkipAll())

	assert.ErrorIs(t, s.Next(), domain.ErrRevealComplete)
	assert.ErrorIs(t, s.SkipToRare(), domain.ErrRevealComplete)
	assert.ErrorIs(t, s.SkipAll(), domain.ErrRevealComplete)
}

func TestSessionIdentity(t *testing.T) {
	s1 := NewSession("user-1", "starter", []domain.Card{card("a", domain.RarityCommon)})
	s2 := NewSession("user-1", "starter", []domain.Card{card("a", domain.RarityCommon)})

	assert.NotEmpty(t, s1.ID())
	assert.NotEqual(t, s1.ID(), s2.ID())
	assert.Equal(t, "user-1", s1.UserID())
	assert.Equal(t, "starter", s1.PackID())
}
