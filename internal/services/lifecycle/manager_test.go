package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShutdownRunsHooksNewestFirst(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	for _, name := range []string{"store", "consumer", "server"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, m.Shutdown(context.Background()))
	require.Equal(t, []string{"server", "consumer", "store"}, order)
}

func TestShutdownCollectsFailures(t *testing.T) {
	m := New(time.Second, nil)

	boom := errors.New("socket already closed")
	var serverStopped bool
	m.Register("server", func(context.Context) error {
		serverStopped = true
		return nil
	})
	m.Register("store", func(context.Context) error { return boom })

	err := m.Shutdown(context.Background())
	require.ErrorIs(t, err, boom)
	require.True(t, serverStopped, "a failing hook must not abort the rest")
}

func TestRegisterIgnoresNilHook(t *testing.T) {
	m := New(time.Second, nil)
	m.Register("noop", nil)
	require.NoError(t, m.Shutdown(context.Background()))
	require.Empty(t, m.registrations)
}
