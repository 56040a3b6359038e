package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repository "github.com/okian/advientea/internal/adapters/repository"
	"github.com/okian/advientea/internal/domain/model"
	"github.com/okian/advientea/pkg/logger"
)

func openStore(t *testing.T) *repository.SQLite {
	t.Helper()
	require.NoError(t, logger.Init())

	store, err := repository.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestDayLookup(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	ownerID, err := store.CreateUser(ctx, "carlos", "avatars/carlos.png")
	require.NoError(t, err)

	tea := &model.TeaFacts{
		Name:        "Té Pakistaní",
		Kind:        model.KindBlack,
		Ingredients: []string{"cardamomo", "canela"},
	}
	require.NoError(t, store.CreateDay(ctx, 5, 2025, tea, ownerID, ""))

	t.Run("returns tea and owner for an assigned day", func(t *testing.T) {
		rec, err := store.Day(ctx, 5, 2025)
		require.NoError(t, err)
		require.NotNil(t, rec.Tea)
		assert.Equal(t, "Té Pakistaní", rec.Tea.Name)
		assert.Equal(t, model.KindBlack, rec.Tea.Kind)
		assert.ElementsMatch(t, []string{"cardamomo", "canela"}, rec.Tea.Ingredients)
		assert.Equal(t, "carlos", rec.Tea.OwnerName)
		require.NotNil(t, rec.Assignment)
		assert.Equal(t, ownerID, rec.Assignment.UserID)
		assert.False(t, rec.Assignment.IsGuest())
	})

	t.Run("returns ErrNotFound for a missing day", func(t *testing.T) {
		_, err := store.Day(ctx, 19, 2025)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("handles a guest assignment", func(t *testing.T) {
		guestTea := &model.TeaFacts{Name: "Manzanilla", Kind: model.KindHerbal}
		require.NoError(t, store.CreateDay(ctx, 6, 2025, guestTea, "", "Abuela Pilar"))

		rec, err := store.Day(ctx, 6, 2025)
		require.NoError(t, err)
		require.NotNil(t, rec.Assignment)
		assert.True(t, rec.Assignment.IsGuest())
		assert.Equal(t, "Abuela Pilar", rec.Tea.OwnerName)
	})

	t.Run("handles a day without tea or owner", func(t *testing.T) {
		require.NoError(t, store.CreateDay(ctx, 7, 2025, nil, "", ""))

		rec, err := store.Day(ctx, 7, 2025)
		require.NoError(t, err)
		assert.Nil(t, rec.Tea)
		assert.Nil(t, rec.Assignment)
	})
}

func TestGuessLog(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	ana, err := store.CreateUser(ctx, "ana", "avatars/ana.png")
	require.NoError(t, err)
	bea, err := store.CreateUser(ctx, "bea", "")
	require.NoError(t, err)
	require.NoError(t, store.CreateDay(ctx, 5, 2025, &model.TeaFacts{Name: "Earl Grey", Kind: model.KindBlack}, "", ""))

	base := time.Date(2025, time.December, 5, 10, 0, 0, 0, time.UTC)
	submit := func(userID string, points int, offset time.Duration) model.ScoredGuess {
		g, err := store.AppendGuess(ctx, model.ScoredGuess{
			UserID:      userID,
			Day:         5,
			Year:        2025,
			Points:      points,
			TeaName:     "earl grey",
			Ingredients: []string{"bergamota"},
			CreatedAt:   base.Add(offset),
		})
		require.NoError(t, err)
		return g
	}

	first := submit(ana, 410, 0)
	submit(bea, 500, time.Minute)
	submit(ana, 716, 2*time.Minute)

	t.Run("assigns ids and keeps submitted timestamps", func(t *testing.T) {
		assert.NotEmpty(t, first.ID)
		assert.True(t, first.CreatedAt.Equal(base))
	})

	t.Run("returns all guesses newest first with user data joined", func(t *testing.T) {
		guesses, err := store.GuessesForDay(ctx, 5, 2025)
		require.NoError(t, err)
		require.Len(t, guesses, 3)

		assert.Equal(t, 716, guesses[0].Points)
		assert.Equal(t, "ana", guesses[0].Username)
		assert.Equal(t, 500, guesses[1].Points)
		assert.Equal(t, "bea", guesses[1].Username)
		assert.Equal(t, 410, guesses[2].Points)
		assert.Equal(t, "avatars/ana.png", guesses[2].AvatarRef)
		assert.Equal(t, []string{"bergamota"}, guesses[0].Ingredients)
	})

	t.Run("keeps earlier guesses as append-only history", func(t *testing.T) {
		n, err := store.GuessCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("returns an empty slice for a day with no guesses", func(t *testing.T) {
		guesses, err := store.GuessesForDay(ctx, 20, 2025)
		require.NoError(t, err)
		assert.NotNil(t, guesses)
		assert.Empty(t, guesses)
	})
}
