package onboarding

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
)

func newTestStore(t *testing.T) (*ResumeStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewResumeStore(rdb), mr
}

func TestResumeStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, 1, "stripe", "acct_123")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "started", sess.Step)

	got, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.ProfessionalID)
	assert.Equal(t, "stripe", got.Provider)
	assert.Equal(t, "acct_123", got.AccountRef)
}

func TestResumeStoreLoadUnknownSession(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background(), "nunca-existiu")
	assert.Equal(t, httperr.CodeNotFound, httperr.BusinessCode(err))
}

func TestResumeStoreAdvancePersistsStep(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, 1, "stripe", "acct_123")
	require.NoError(t, err)

	require.NoError(t, store.Advance(ctx, sess, "link_issued"))

	got, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "link_issued", got.Step)
}

func TestResumeStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, 1, "stripe", "acct_123")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err = store.Load(ctx, sess.ID)
	assert.Equal(t, httperr.CodeNotFound, httperr.BusinessCode(err))
}

func TestResumeStoreSessionExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, 1, "stripe", "acct_123")
	require.NoError(t, err)

	mr.FastForward(49 * time.Hour)

	_, err = store.Load(ctx, sess.ID)
	assert.Equal(t, httperr.CodeNotFound, httperr.BusinessCode(err))
}
