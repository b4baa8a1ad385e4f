package client

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProgressReader_PercentReachesExactly100(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 100)
	var events []ProgressEvent
	reader := newProgressReader(bytes.NewReader(data), int64(len(data)), func(e ProgressEvent) {
		events = append(events, e)
	})

	_, err := io.CopyBuffer(io.Discard, onlyReader{reader}, make([]byte, 7))
	require.NoError(t, err)
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	require.True(t, last.PercentKnown)
	require.Equal(t, float64(100), last.Percent)
	require.Equal(t, int64(100), last.Loaded)

	prev := float64(0)
	for _, e := range events {
		require.GreaterOrEqual(t, e.Percent, prev, "percent must be monotonic")
		prev = e.Percent
	}
}

func TestProgressReader_UnknownTotalStaysIndeterminate(t *testing.T) {
	var events []ProgressEvent
	reader := newProgressReader(strings.NewReader("some body"), 0, func(e ProgressEvent) {
		events = append(events, e)
	})

	_, err := io.ReadAll(onlyReader{reader})
	require.NoError(t, err)
	require.NotEmpty(t, events)
	for _, e := range events {
		require.False(t, e.PercentKnown)
		require.False(t, e.ETAKnown)
	}
}

func TestProgressReader_ETAThrottledToOncePerSecond(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 40)
	var events []ProgressEvent
	reader := newProgressReader(bytes.NewReader(data), int64(len(data)), func(e ProgressEvent) {
		events = append(events, e)
	})

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	reader.now = func() time.Time {
		// four reads, 400ms apart: the second crosses the 1s mark once
		t := clock.Add(time.Duration(step) * 400 * time.Millisecond)
		step++
		return t
	}

	buf := make([]byte, 10)
	for {
		_, err := reader.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	require.Len(t, events, 4)
	// reads land at 0ms, 400ms, 800ms, 1200ms; only the last exceeds
	// one second since the previous recomputation
	require.False(t, events[0].ETAKnown)
	require.False(t, events[1].ETAKnown)
	require.False(t, events[2].ETAKnown)
	require.True(t, events[3].ETAKnown)

	// all 40 bytes are counted by the fourth read, so nothing remains
	require.Equal(t, time.Duration(0), events[3].TimeRemaining)
}

func TestProgressReader_ETAFromAverageThroughput(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 100)
	var events []ProgressEvent
	reader := newProgressReader(bytes.NewReader(data), int64(len(data)), func(e ProgressEvent) {
		events = append(events, e)
	})

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Duration{0, 2 * time.Second}
	step := 0
	reader.now = func() time.Time {
		t := clock.Add(times[step])
		step++
		return t
	}

	buf := make([]byte, 50)
	_, err := reader.Read(buf)
	require.NoError(t, err)
	_, err = reader.Read(buf)
	require.NoError(t, err)

	require.Len(t, events, 2)
	require.True(t, events[1].ETAKnown)
	// 100 bytes in 2 seconds is 50 B/s with nothing left to send
	require.Equal(t, time.Duration(0), events[1].TimeRemaining)
}

// onlyReader hides progressReader's concrete type so io helpers cannot
// shortcut around Read.
type onlyReader struct{ r io.Reader }

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }
