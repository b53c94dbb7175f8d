package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/diskdex/internal/app"
	"github.com/atomicobject/diskdex/internal/config"
)

func withTempConfigDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	orig := config.UserConfigDirectory
	config.UserConfigDirectory = func() (string, error) { return dir, nil }
	t.Cleanup(func() { config.UserConfigDirectory = orig })
}

func TestOpenBuildsEveryCollaborator(t *testing.T) {
	withTempConfigDir(t)

	a, err := app.Open()
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Store)
	assert.NotNil(t, a.Perf)
	assert.NotNil(t, a.Engine)
	assert.NotNil(t, a.Controller)
}

func TestCloseWithoutStartDoesNotBlock(t *testing.T) {
	withTempConfigDir(t)

	a, err := app.Open()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		a.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked without a prior Start")
	}
}

func TestStartThenCloseTearsDownCleanly(t *testing.T) {
	withTempConfigDir(t)

	a, err := app.Open()
	require.NoError(t, err)

	require.NoError(t, a.Start(context.Background()))
	a.Close()
}
