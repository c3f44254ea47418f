package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMonitor(source *fakeSource, gate Gate, wl Whitelist) (*Monitor, *fakeTerminator) {
	term := newFakeTerminator(source)
	m := NewMonitor(
		newTestEngine(source, testPolicy),
		NewSuppressor(source, gate, term),
		func() Whitelist { return wl },
		Options{
			UpdateInterval:   5 * time.Millisecond,
			SuppressInterval: 20 * time.Millisecond,
			Threshold:        800,
		})
	return m, term
}

func TestMonitorUpdateCallback(t *testing.T) {
	source := newFakeSource()
	source.add(1, &fakeProc{owner: 0})
	source.add(2, &fakeProc{owner: 10001, name: "com.a:b", score: 100})
	m, _ := newTestMonitor(source, &fakeGate{}, nil)

	var got []Record
	var gotStats CycleStats
	m.OnUpdate(func(records []Record, stats CycleStats) {
		got = records
		gotStats = stats
	})

	stats := m.Update()
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, stats, gotStats)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].PID)
	assert.Equal(t, got, m.Records())
}

func TestMonitorSuppressCallback(t *testing.T) {
	source := newFakeSource()
	source.add(2, &fakeProc{owner: 10001, name: "com.a:b", score: 100})
	source.add(3, &fakeProc{owner: 10001, name: "com.c:d", score: 900})
	m, _ := newTestMonitor(source, &fakeGate{}, nil)

	calls := 0
	var killed []Record
	m.OnKilled(func(records []Record) {
		calls++
		killed = records
	})

	m.Update()
	assert.Equal(t, []string{"com.c:d"}, Names(m.Suppress()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"com.c:d"}, Names(killed))
	assert.Len(t, m.Records(), 1)

	assert.Nil(t, m.Suppress())
	assert.Equal(t, 1, calls, "an empty kill list is not reported")
}

func TestMonitorWhitelistSnapshotPerCycle(t *testing.T) {
	source := newFakeSource()
	source.add(2, &fakeProc{owner: 10001, name: "com.a"})
	wl := fakeWhitelist{}
	m := NewMonitor(newTestEngine(source, testPolicy),
		NewSuppressor(source, nil, newFakeTerminator(source)),
		func() Whitelist { return wl },
		Options{UpdateInterval: time.Second, SuppressInterval: time.Second, Threshold: 800})

	m.Update()
	wl = fakeWhitelist{"com.a:*"}
	source.procs[2].name = "com.a:svc"
	m.Update()

	records := m.Records()
	require.Len(t, records, 1)
	assert.Equal(t, StateInert, records[0].State)
}

func TestMonitorStartStopsOnCancel(t *testing.T) {
	source := newFakeSource()
	source.add(3, &fakeProc{owner: 10001, name: "com.c:d", score: 900})
	m, _ := newTestMonitor(source, &fakeGate{}, nil)

	killedCh := make(chan []Record, 1)
	m.OnKilled(func(records []Record) {
		select {
		case killedCh <- records:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- m.Start(ctx) }()

	select {
	case killed := <-killedCh:
		assert.Equal(t, []string{"com.c:d"}, Names(killed))
	case <-time.After(5 * time.Second):
		t.Fatal("suppression pass did not run")
	}

	cancel()
	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop")
	}
}
