package tasks

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/skytunes/internal/models"
	th "github.com/desertthunder/skytunes/internal/testing"
)

// manualTicker only fires when the test says so.
type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop() { m.stopped.Store(true) }

// tick delivers one tick, reporting false if the loop is no longer listening.
func (m *manualTicker) tick() bool {
	select {
	case m.ch <- time.Now():
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// collector is a concurrency-safe TrackSink.
type collector struct {
	mu      sync.Mutex
	updates []TrackUpdate
}

func (c *collector) sink(u TrackUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, u)
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.updates)
}

func (c *collector) last() TrackUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates[len(c.updates)-1]
}

// gatedSource blocks every request until the gate is opened.
type gatedSource struct {
	gate     chan struct{}
	inflight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
}

func (g *gatedSource) CurrentTrack(ctx context.Context) (*models.TrackPayload, error) {
	g.calls.Add(1)
	n := g.inflight.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	<-g.gate
	g.inflight.Add(-1)
	return &models.TrackPayload{Name: "Slow"}, nil
}

func (g *gatedSource) Name() string { return "gated" }

func TestPoller(t *testing.T) {
	payload := &models.TrackPayload{Name: "Song", Artist: "Artist", Duration: "3:42", CurrentTime: "2:34"}

	t.Run("Immediate Fetch Then One Per Tick", func(t *testing.T) {
		source := th.NewStubTrackSource(th.StubTrackResponse{Payload: payload})
		ticker := newManualTicker()
		out := &collector{}

		h := NewPoller(source, time.Second, out.sink, quietLogger()).
			WithTicker(func(time.Duration) Ticker { return ticker }).
			Start(context.Background())

		waitFor(t, "initial fetch", func() bool { return source.Calls() == 1 })

		for i := 2; i <= 4; i++ {
			if !ticker.tick() {
				t.Fatalf("tick %d not consumed", i)
			}
			waitFor(t, "tick fetch", func() bool { return source.Calls() == i })
		}

		h.Stop()
		if ticker.tick() {
			t.Error("loop still reading ticks after Stop")
		}

		time.Sleep(30 * time.Millisecond)
		if got := source.Calls(); got != 4 {
			t.Errorf("expected 4 requests, got %d", got)
		}
		if !ticker.stopped.Load() {
			t.Error("ticker should be stopped")
		}

		h.Wait()
		if out.len() != 4 {
			t.Errorf("expected 4 updates, got %d", out.len())
		}
	})

	t.Run("Passes Interval To Ticker", func(t *testing.T) {
		var got time.Duration
		ticker := newManualTicker()
		source := th.NewStubTrackSource()

		h := NewPoller(source, 0, nil, quietLogger()).
			WithTicker(func(d time.Duration) Ticker { got = d; return ticker }).
			Start(context.Background())
		h.Stop()

		if got != DefaultPollInterval {
			t.Errorf("expected %v, got %v", DefaultPollInterval, got)
		}
	})

	t.Run("Stop Is Idempotent", func(t *testing.T) {
		h := NewPoller(th.NewStubTrackSource(), time.Hour, nil, quietLogger()).Start(context.Background())

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.Stop()
			}()
		}
		wg.Wait()

		select {
		case <-h.Done():
		default:
			t.Error("expected loop to have exited")
		}
	})

	t.Run("Context Cancellation Stops Loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		ticker := newManualTicker()
		source := th.NewStubTrackSource()

		h := NewPoller(source, time.Second, nil, quietLogger()).
			WithTicker(func(time.Duration) Ticker { return ticker }).
			Start(ctx)
		cancel()

		select {
		case <-h.Done():
		case <-time.After(time.Second):
			t.Fatal("loop did not exit on cancel")
		}
		h.Stop()
	})

	t.Run("Overlapping Requests Are Not Deduplicated", func(t *testing.T) {
		source := &gatedSource{gate: make(chan struct{})}
		ticker := newManualTicker()
		out := &collector{}

		h := NewPoller(source, time.Second, out.sink, quietLogger()).
			WithTicker(func(time.Duration) Ticker { return ticker }).
			Start(context.Background())

		ticker.tick()
		ticker.tick()
		waitFor(t, "three in-flight requests", func() bool { return source.inflight.Load() == 3 })

		h.Stop()
		close(source.gate)
		h.Wait()

		if source.peak.Load() != 3 {
			t.Errorf("expected 3 overlapping requests, peak was %d", source.peak.Load())
		}
		if out.len() != 3 {
			t.Errorf("in-flight requests should still deliver, got %d updates", out.len())
		}
	})

	t.Run("Failure Delivers Error Sentinel", func(t *testing.T) {
		source := th.NewStubTrackSource(th.StubTrackResponse{Err: errors.New("status 503")})
		out := &collector{}

		h := NewPoller(source, time.Hour, out.sink, quietLogger()).Start(context.Background())
		h.Stop()
		h.Wait()

		u := out.last()
		if u.Err == nil {
			t.Error("expected error")
		}
		if u.Track != models.TrackError() {
			t.Errorf("expected error sentinel, got %+v", u.Track)
		}
	})
}

func TestFetchTrack(t *testing.T) {
	t.Run("Full Payload", func(t *testing.T) {
		source := th.NewStubTrackSource(th.StubTrackResponse{Payload: &models.TrackPayload{
			Name: "Song", Artist: "Artist", Duration: "3:42", CurrentTime: "2:34", AlbumCover: "https://img/c.jpg",
		}})

		u := FetchTrack(context.Background(), source, quietLogger())
		if u.Err != nil {
			t.Fatalf("unexpected error: %v", u.Err)
		}

		want := models.TrackState{SongName: "Song", ArtistName: "Artist", Duration: "3:42", CurrentTime: "2:34", AlbumCover: "https://img/c.jpg"}
		if u.Track != want {
			t.Errorf("got %+v, want %+v", u.Track, want)
		}
		if math.Abs(u.Progress-69.37) > 0.01 {
			t.Errorf("expected ≈69.37, got %v", u.Progress)
		}
	})

	t.Run("Missing Fields Get Defaults", func(t *testing.T) {
		source := th.NewStubTrackSource(th.StubTrackResponse{Payload: &models.TrackPayload{}})

		u := FetchTrack(context.Background(), source, quietLogger())
		want := models.TrackState{SongName: "Unknown Song", ArtistName: "Unknown Artist", Duration: "3:42", CurrentTime: "2:34"}
		if u.Track != want {
			t.Errorf("got %+v, want %+v", u.Track, want)
		}
		// progress uses the raw clocks, both "0:0"
		if !math.IsNaN(u.Progress) {
			t.Errorf("expected NaN progress for 0/0, got %v", u.Progress)
		}
	})

	t.Run("Missing Duration Only", func(t *testing.T) {
		source := th.NewStubTrackSource(th.StubTrackResponse{Payload: &models.TrackPayload{CurrentTime: "1:00"}})

		u := FetchTrack(context.Background(), source, quietLogger())
		if u.Track.Duration != "3:42" {
			t.Errorf("expected display default 3:42, got %s", u.Track.Duration)
		}
		if !math.IsInf(u.Progress, 1) {
			t.Errorf("expected +Inf progress, got %v", u.Progress)
		}
	})

	t.Run("Malformed Clock", func(t *testing.T) {
		source := th.NewStubTrackSource(th.StubTrackResponse{Payload: &models.TrackPayload{Name: "Live", CurrentTime: "LIVE", Duration: "3:00"}})

		u := FetchTrack(context.Background(), source, quietLogger())
		if u.Err != nil {
			t.Errorf("malformed clock is not a fetch failure, got %v", u.Err)
		}
		if !math.IsNaN(u.Progress) {
			t.Errorf("expected NaN, got %v", u.Progress)
		}
	})

	t.Run("Nil Payload", func(t *testing.T) {
		source := th.NewStubTrackSource(th.StubTrackResponse{})

		u := FetchTrack(context.Background(), source, quietLogger())
		if u.Err == nil || !u.Track.IsError() {
			t.Errorf("expected failure, got %+v", u)
		}
	})
}

func TestNowPlaying(t *testing.T) {
	t.Run("Initial", func(t *testing.T) {
		n := InitialNowPlaying()
		if n.Track != models.InitialTrack() || n.Progress != 35 {
			t.Errorf("unexpected initial state %+v", n)
		}
	})

	t.Run("Failure Keeps Progress", func(t *testing.T) {
		n := InitialNowPlaying().Apply(TrackUpdate{Track: models.TrackState{SongName: "A"}, Progress: 50})
		n = n.Apply(TrackUpdate{Track: models.TrackError(), Progress: 0, Err: errors.New("down")})

		if n.Progress != 50 {
			t.Errorf("expected progress 50 to be kept, got %v", n.Progress)
		}
		if !n.Track.IsError() {
			t.Error("expected error sentinel track")
		}
		if n.LastError == nil {
			t.Error("expected LastError")
		}
	})

	t.Run("Store", func(t *testing.T) {
		store := NewNowPlayingStore()
		sub := store.Subscribe()
		sink := store.Sink()

		a := models.TrackState{SongName: "Heroes", ArtistName: "David Bowie"}
		b := models.TrackState{SongName: "Low", ArtistName: "David Bowie"}

		sink(TrackUpdate{Track: a, Progress: 10})
		sink(TrackUpdate{Track: models.TrackState{SongName: "heroes ", ArtistName: "DAVID  BOWIE"}, Progress: 20})
		sink(TrackUpdate{Track: models.TrackError(), Err: errors.New("down")})
		sink(TrackUpdate{Track: b, Progress: 30})

		snap := store.Snapshot()
		if snap.Track != b || snap.Progress != 30 {
			t.Errorf("unexpected snapshot %+v", snap)
		}

		history := store.History()
		if len(history) != 2 || history[0] != a || history[1] != b {
			t.Errorf("expected de-duplicated history [a b], got %+v", history)
		}

		select {
		case got := <-sub:
			if got.Track.SongName == "" {
				t.Error("expected a state on the subscription")
			}
		default:
			t.Error("expected subscriber to be notified")
		}
	})
}
