package mux_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hidmux/hid"
	"hidmux/mux"
	"hidmux/transport"
)

func startLoop(t *testing.T, cfg mux.Config) (*mux.Loop, *transport.Recorder, context.CancelFunc) {
	t.Helper()
	rec := transport.NewRecorder()
	m, err := mux.New(cfg, rec, discardLogger())
	require.NoError(t, err)

	l := mux.NewLoop(m, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = l.Run(ctx) }()
	t.Cleanup(cancel)
	return l, rec, cancel
}

func TestLoopDoRunsTask(t *testing.T) {
	l, rec, _ := startLoop(t, scenarioConfig(t))

	err := l.Do(context.Background(), func(m *mux.Mux) error {
		return m.PositionPress(0, hid.KeyA)
	})
	require.NoError(t, err)
	assert.Equal(t, uint8(hid.KeyA), rec.Last(0)[3])
}

func TestLoopKeepAliveRetransmits(t *testing.T) {
	cfg := scenarioConfig(t)
	cfg.KeepAlive = 10 * time.Millisecond
	l, rec, _ := startLoop(t, cfg)

	require.NoError(t, l.Do(context.Background(), func(m *mux.Mux) error {
		return m.Press(0, hid.KeyA)
	}))
	first := rec.Sent(0)

	// Keep-alive resends the unchanged report for every device without any
	// further mutation.
	require.Eventually(t, func() bool {
		return len(rec.Sent(0)) > len(first) && len(rec.Sent(3)) > 0
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, rec.Last(0), first[len(first)-1], "keep-alive altered the report")
}

func TestLoopActivationBurst(t *testing.T) {
	cfg := scenarioConfig(t)
	cfg.Activation = mux.ActivationExternal
	cfg.AnnounceRepeat = 3
	cfg.AnnounceDelay = 5 * time.Millisecond
	cfg.KeepAlive = time.Hour // keep ticks out of this test
	l, rec, _ := startLoop(t, cfg)

	require.NoError(t, l.SetActive(context.Background(), true))

	// One batch from the activation clear plus two scheduled repeats.
	require.Eventually(t, func() bool {
		return len(rec.Sent(0)) >= 3
	}, time.Second, 2*time.Millisecond)

	for i := 0; i < 4; i++ {
		for _, buf := range rec.Sent(i) {
			assert.Equal(t, uint8(mux.DefaultBaseReportID+i), buf[0])
			assert.Zero(t, buf[1])
		}
	}
}

func TestLoopDoAfterStop(t *testing.T) {
	l, _, cancel := startLoop(t, scenarioConfig(t))
	cancel()

	// Run drains racing tasks while shutting down, so poll until the stop
	// is observed.
	require.Eventually(t, func() bool {
		err := l.Do(context.Background(), func(m *mux.Mux) error { return nil })
		return errors.Is(err, mux.ErrLoopStopped)
	}, time.Second, time.Millisecond)
}

func TestLoopDoHonorsContext(t *testing.T) {
	cfg := scenarioConfig(t)
	rec := transport.NewRecorder()
	m, err := mux.New(cfg, rec, discardLogger())
	require.NoError(t, err)
	l := mux.NewLoop(m, discardLogger())
	// Run never started: Do must fail via its own context.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err = l.Do(ctx, func(m *mux.Mux) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
