package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/services"
)

// DefaultPollInterval is how often the now-playing source is polled.
const DefaultPollInterval = 5 * time.Second

// TrackUpdate is the outcome of one poll.
type TrackUpdate struct {
	Track     models.TrackState
	Progress  float64 // only meaningful when Err is nil
	Err       error
	FetchedAt time.Time
}

// TrackSink receives every [TrackUpdate]. It may be called from several goroutines at once
// because polls are allowed to overlap.
type TrackSink func(TrackUpdate)

// Ticker is the subset of [time.Ticker] the poller needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

// NewTimeTicker adapts [time.NewTicker] to [Ticker].
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// Poller repeatedly fetches the current track.
//
// Ticks are anchored on when each poll starts, not when it finishes, and every poll
// runs in its own goroutine; a slow source therefore sees overlapping requests.
type Poller struct {
	source    services.TrackSource
	interval  time.Duration
	sink      TrackSink
	logger    *log.Logger
	newTicker func(time.Duration) Ticker
}

// NewPoller creates a poller. A non-positive interval selects [DefaultPollInterval].
func NewPoller(source services.TrackSource, interval time.Duration, sink TrackSink, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	if sink == nil {
		sink = func(TrackUpdate) {}
	}

	return &Poller{
		source:    source,
		interval:  interval,
		sink:      sink,
		logger:    logger,
		newTicker: NewTimeTicker,
	}
}

// WithTicker replaces the ticker factory. Tests use it to drive ticks by hand.
func (p *Poller) WithTicker(f func(time.Duration) Ticker) *Poller {
	p.newTicker = f
	return p
}

// WithSink replaces the sink. It must be called before [Poller.Start].
func (p *Poller) WithSink(sink TrackSink) *Poller {
	if sink != nil {
		p.sink = sink
	}
	return p
}

// PollHandle owns a running poll loop.
type PollHandle struct {
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
	inflight sync.WaitGroup
}

// Stop ends scheduling. It is safe to call more than once and from several goroutines;
// polls already in flight finish and still reach the sink.
// No new poll starts after Stop returns.
func (h *PollHandle) Stop() {
	h.once.Do(func() { close(h.stop) })
	<-h.done
}

// Done is closed once the poll loop has exited, either through Stop or context cancellation.
func (h *PollHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the loop has exited and every in-flight poll has been delivered.
func (h *PollHandle) Wait() {
	<-h.done
	h.inflight.Wait()
}

// Start polls immediately, then once per interval until the handle is stopped or ctx is cancelled.
func (p *Poller) Start(ctx context.Context) *PollHandle {
	h := &PollHandle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	ticker := p.newTicker(p.interval)
	p.launch(ctx, h)

	go func() {
		defer close(h.done)
		defer ticker.Stop()

		for {
			select {
			case <-h.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C():
				select {
				case <-h.stop:
					return
				default:
				}
				p.launch(ctx, h)
			}
		}
	}()

	return h
}

func (p *Poller) launch(ctx context.Context, h *PollHandle) {
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		// a stopped handle does not abort the request it already started
		p.sink(FetchTrack(context.WithoutCancel(ctx), p.source, p.logger))
	}()
}

// FetchTrack performs one poll and maps the outcome onto a [TrackUpdate].
//
// Missing fields get placeholder values; progress is computed from the raw clocks,
// each defaulting to [MissingClock]. Any failure yields [models.TrackError].
func FetchTrack(ctx context.Context, source services.TrackSource, logger *log.Logger) TrackUpdate {
	now := time.Now()

	payload, err := source.CurrentTrack(ctx)
	if err == nil && payload == nil {
		err = errors.New("empty response from track source")
	}
	if err != nil {
		logger.Warn("now playing fetch failed", "source", source.Name(), "error", err)
		return TrackUpdate{Track: models.TrackError(), Err: err, FetchedAt: now}
	}

	track := models.TrackState{
		SongName:    orDefault(payload.Name, models.UnknownSong),
		ArtistName:  orDefault(payload.Artist, models.UnknownArtist),
		Duration:    orDefault(payload.Duration, models.DefaultDuration),
		CurrentTime: orDefault(payload.CurrentTime, models.DefaultCurrent),
		AlbumCover:  payload.AlbumCover,
	}

	progress, perr := ComputeProgress(orDefault(payload.CurrentTime, MissingClock), orDefault(payload.Duration, MissingClock))
	if perr != nil {
		logger.Warn("malformed track clock", "currentTime", payload.CurrentTime, "duration", payload.Duration, "error", perr)
	}

	logger.Debug("now playing", "song", track.SongName, "artist", track.ArtistName, "progress", progress)
	return TrackUpdate{Track: track, Progress: progress, FetchedAt: now}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
