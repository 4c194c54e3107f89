package service

import (
	"context"
	"errors"
	"testing"

	"github.com/PaulBabatuyi/TrustSite/internal/database"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.managers.Members.Create(ctx, newMember(), nil)
	require.NoError(t, err)
	for _, n := range []int{40, 60} {
		ev := newEvent()
		ev.Beneficiaries = &n
		_, err := f.managers.Events.Create(ctx, ev, nil)
		require.NoError(t, err)
	}
	_, err = f.managers.Events.Create(ctx, newEvent(), nil)
	require.NoError(t, err)

	stats, err := f.managers.Stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SiteStats{Members: 1, Events: 3, Beneficiaries: 100}, *stats)
}

func TestStatsStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.failOn("Count", database.ErrUnavailable)

	_, err := f.managers.Stats.Get(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestStoreErrorPassesThroughUnknown(t *testing.T) {
	cause := errors.New("weird")
	err := storeError("op", cause)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrStoreUnavailable)
	assert.Nil(t, storeError("op", nil))
}

func TestWarningsStrings(t *testing.T) {
	var none Warnings
	assert.Nil(t, none.Strings())

	ws := Warnings{{URL: "u", Err: errors.New("gone")}}
	assert.Equal(t, []string{"blob delete failed: u: gone"}, ws.Strings())
}
