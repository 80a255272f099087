package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApp struct {
	calls    int
	deadline time.Time
	err      error
}

func (f *fakeApp) Shutdown(ctx context.Context) error {
	f.calls++
	f.deadline, _ = ctx.Deadline()
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCmd()

	for _, name := range []string{"host", "port", "debug"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s should be registered", name)
	}
	assert.Nil(t, cmd.Flags().Lookup("data"), "only host, port and debug are exposed")
}

func TestRootCommandRejectsArguments(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
}

func TestRootCommandFailsOnMissingData(t *testing.T) {
	t.Setenv("DATAPULSE_DATA_PATH", t.TempDir()+"/missing.csv")
	t.Setenv("DATAPULSE_ENV", "test")
	t.Setenv("DATAPULSE_LOG_LEVEL", "error")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--port", "18050"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	assert.Error(t, err)
}

func TestWaitForShutdownSignal(t *testing.T) {
	tests := []struct {
		name          string
		signal        os.Signal
		serverErr     error
		shutdownErr   error
		expectedCalls int
		expectErr     bool
	}{
		{
			name:          "Interrupt shuts down",
			signal:        syscall.SIGINT,
			expectedCalls: 1,
		},
		{
			name:          "Terminate shuts down",
			signal:        syscall.SIGTERM,
			expectedCalls: 1,
		},
		{
			name:          "Listener failure is returned",
			serverErr:     errors.New("address already in use"),
			expectedCalls: 0,
			expectErr:     true,
		},
		{
			name:          "Shutdown failure is returned",
			signal:        syscall.SIGTERM,
			shutdownErr:   context.DeadlineExceeded,
			expectedCalls: 1,
			expectErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &fakeApp{err: tt.shutdownErr}
			sigChan := make(chan os.Signal, 1)
			serverErr := make(chan error, 1)

			if tt.signal != nil {
				sigChan <- tt.signal
			} else {
				serverErr <- tt.serverErr
			}

			start := time.Now()
			err := waitForShutdownSignal(app, discardLogger(), sigChan, serverErr, 5*time.Second)

			assert.Equal(t, tt.expectedCalls, app.calls)
			if tt.expectErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			if tt.serverErr != nil {
				assert.ErrorIs(t, err, tt.serverErr)
			}
			if tt.shutdownErr != nil {
				assert.ErrorIs(t, err, tt.shutdownErr)
			}
			if tt.expectedCalls > 0 {
				assert.WithinDuration(t, start.Add(5*time.Second), app.deadline, time.Second, "shutdown is bounded by the timeout")
			}
		})
	}
}
