package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/service"
	"github.com/louagetn/station-client/internal/pkg/config"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		StationID: "test-station",
		Session:   config.SessionConfig{TTL: time.Hour, VerifyTimeout: 200 * time.Millisecond, RefreshInterval: time.Minute},
		AuthAPI:   config.AuthAPIConfig{BaseURL: "http://127.0.0.1:1/api", Timeout: 200 * time.Millisecond},
		Store:     config.StoreConfig{Backend: backend, Path: filepath.Join(t.TempDir(), "session.db")},
	}
}

func TestBuildStack_BoltOfflineRestoreKeepsSession(t *testing.T) {
	t.Cleanup(service.ResetManager)
	ctx := context.Background()
	c := testConfig(t, config.StoreBolt)

	st, err := buildStack(ctx, c)
	require.NoError(t, err)
	session := domain.NewSession("tok", domain.Identity{
		ID: "s1", CIN: "12345678", FirstName: "Ahmed", LastName: "Ben Ali", Role: domain.RoleWorker,
	}, time.Now().Add(time.Hour))
	st.manager.SaveSession(ctx, session)

	ctrl, err := st.controller(ctx, c, log("test"))
	require.NoError(t, err)
	state := ctrl.State()
	assert.Equal(t, domain.PhaseUnauthenticated, state.Phase)
	assert.NotEmpty(t, state.LastError)

	info := st.manager.GetSessionInfo(ctx)
	assert.True(t, info.HasSession, "unreachable auth service must not wipe the stored session")
	st.close()
}

func TestOpenKV_UnknownBackend(t *testing.T) {
	_, _, err := openKV(context.Background(), testConfig(t, "floppy"))
	assert.Error(t, err)
}

func TestReadLine(t *testing.T) {
	got, err := readLine(strings.NewReader("s3cret\r\nignored"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	got, err = readLine(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", got)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, domain.SessionInfo{HasSession: true}))
	assert.Contains(t, buf.String(), `"hasSession": true`)
}
