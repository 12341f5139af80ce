package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louagetn/station-client/internal/core/domain"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Get(ctx, "auth")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	value := []byte(`{"token":"abc"}`)
	require.NoError(t, s.Set(ctx, "auth", value))
	value[0] = 'X'

	got, err := s.Get(ctx, "auth")
	require.NoError(t, err)
	assert.Equal(t, `{"token":"abc"}`, string(got), "stored value must be a copy")

	require.NoError(t, s.Delete(ctx, "auth"))
	require.NoError(t, s.Delete(ctx, "auth"))
	_, err = s.Get(ctx, "auth")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	assert.NoError(t, s.Ping(ctx))
}
