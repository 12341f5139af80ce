package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/service"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kiosk", "session.db")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestStore_GetSetDelete(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	_, err := s.Get(ctx, "auth")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	require.NoError(t, s.Set(ctx, "auth", []byte(`{"token":"abc"}`)))
	got, err := s.Get(ctx, "auth")
	require.NoError(t, err)
	assert.Equal(t, `{"token":"abc"}`, string(got))

	require.NoError(t, s.Delete(ctx, "auth"))
	require.NoError(t, s.Delete(ctx, "auth"), "delete must be idempotent")
	_, err = s.Get(ctx, "auth")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	assert.NoError(t, s.Ping(ctx))
}

func TestStore_SessionSurvivesReopen(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	session := domain.NewSession("abc", domain.Identity{
		ID: "s1", CIN: "12345678", FirstName: "Ahmed", LastName: "Ben Ali", Role: domain.RoleWorker,
	}, time.Time{})
	service.NewSessionStore(s, zerolog.Nop()).Save(ctx, session)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := service.NewSessionStore(reopened, zerolog.Nop()).Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.Token)
	assert.Equal(t, "12345678", got.Identity.CIN)
	assert.Nil(t, got.ExpiresAt)
}

func TestOpen_FailsFastWhenLocked(t *testing.T) {
	s, path := newTestStore(t)
	defer s.Close()

	_, err := Open(path)
	assert.Error(t, err, "second open must time out while the first holds the lock")
}
