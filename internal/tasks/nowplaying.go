package tasks

import (
	"sync"
	"time"

	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/shared"
)

// NowPlaying is the music widget's view of the poller: the latest track and progress.
type NowPlaying struct {
	Track       models.TrackState
	Progress    float64
	LastError   error
	LastUpdated time.Time
}

// InitialNowPlaying is the placeholder shown before the first poll settles.
func InitialNowPlaying() NowPlaying {
	return NowPlaying{Track: models.InitialTrack(), Progress: models.InitialProgress}
}

// Apply folds u into n. The track is always replaced; progress is kept from n when u failed.
func (n NowPlaying) Apply(u TrackUpdate) NowPlaying {
	next := NowPlaying{
		Track:       u.Track,
		Progress:    n.Progress,
		LastError:   u.Err,
		LastUpdated: u.FetchedAt,
	}
	if u.Err == nil {
		next.Progress = u.Progress
	}
	return next
}

// NowPlayingStore is a concurrency-safe holder for [NowPlaying], fed by a [Poller] sink.
type NowPlayingStore struct {
	mu    sync.RWMutex
	state NowPlaying
	seen  []models.TrackState
	keys  map[string]struct{}
	subs  []chan NowPlaying
}

// NewNowPlayingStore creates a store holding [InitialNowPlaying].
func NewNowPlayingStore() *NowPlayingStore {
	return &NowPlayingStore{state: InitialNowPlaying(), keys: make(map[string]struct{})}
}

// Sink returns a [TrackSink] that applies updates to the store.
func (s *NowPlayingStore) Sink() TrackSink {
	return s.Apply
}

// Apply folds u into the current state, records successfully polled tracks in the
// session history and notifies subscribers without blocking.
func (s *NowPlayingStore) Apply(u TrackUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.Apply(u)

	if u.Err == nil {
		key := trackKey(u.Track)
		if _, ok := s.keys[key]; !ok {
			s.keys[key] = struct{}{}
			s.seen = append(s.seen, u.Track)
		}
	}

	for _, ch := range s.subs {
		select {
		case ch <- s.state:
		default:
		}
	}
}

// Snapshot returns the current state.
func (s *NowPlayingStore) Snapshot() NowPlaying {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// History returns the distinct tracks seen this session in first-seen order.
func (s *NowPlayingStore) History() []models.TrackState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TrackState, len(s.seen))
	copy(out, s.seen)
	return out
}

// Subscribe returns a channel that receives the state after each update.
// Slow readers miss intermediate states rather than blocking the poller.
func (s *NowPlayingStore) Subscribe() <-chan NowPlaying {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan NowPlaying, 1)
	s.subs = append(s.subs, ch)
	return ch
}

func trackKey(t models.TrackState) string {
	return shared.NormalizeTrackKey(t.SongName, t.ArtistName)
}
