package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/shared"
	"github.com/desertthunder/skytunes/internal/tasks"
	tu "github.com/desertthunder/skytunes/internal/testing"
)

type stubResolver struct {
	state models.WeatherState
	err   error
	calls int
}

func (s *stubResolver) Resolve(ctx context.Context) (models.WeatherState, error) {
	s.calls++
	return s.state, s.err
}

type stubFavorites struct {
	mu    sync.Mutex
	saved map[string]*models.Favorite
	err   error
}

func newStubFavorites() *stubFavorites {
	return &stubFavorites{saved: make(map[string]*models.Favorite)}
}

func (s *stubFavorites) Create(fav *models.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	key := shared.NormalizeTrackKey(fav.SongName(), fav.ArtistName())
	if _, ok := s.saved[key]; ok {
		return fmt.Errorf("%w: %s", shared.ErrAlreadyExists, fav.Label())
	}
	fav.SetID(shared.GenerateID())
	fav.SetSequence(len(s.saved) + 1)
	s.saved[key] = fav
	return nil
}

func (s *stubFavorites) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, fav := range s.saved {
		if fav.ID() == id {
			delete(s.saved, key)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (s *stubFavorites) List(criteria map[string]any) ([]*models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	favs := make([]*models.Favorite, 0, len(s.saved))
	for _, fav := range s.saved {
		favs = append(favs, fav)
	}
	return favs, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestModel(t *testing.T, deps Deps) *Model {
	t.Helper()
	if deps.Logger == nil {
		deps.Logger = quietLogger()
	}
	if deps.OpenURL == nil {
		deps.OpenURL = func(string) error { return nil }
	}
	m := NewModel(context.Background(), deps)
	t.Cleanup(m.Close)
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func playing(song, artist string) tasks.TrackUpdate {
	return tasks.TrackUpdate{
		Track: models.TrackState{
			SongName:    song,
			ArtistName:  artist,
			Duration:    "3:42",
			CurrentTime: "2:34",
			AlbumCover:  "https://img.example.com/" + song + ".jpg",
		},
		Progress:  69.37,
		FetchedAt: time.Now(),
	}
}

func TestClampPercent(t *testing.T) {
	tt := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 69.37, 69.37},
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"over", 140, 100},
		{"nan", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
		{"negative infinity", math.Inf(-1), 0},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampPercent(tc.in); got != tc.want {
				t.Errorf("ClampPercent(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestModel(t *testing.T) {
	t.Run("Initial State", func(t *testing.T) {
		m := newTestModel(t, Deps{})

		if m.view != HomeView {
			t.Errorf("expected HomeView, got %v", m.view)
		}
		if !m.weather.IsLoading() {
			t.Errorf("expected loading weather, got %+v", m.weather)
		}
		if m.nowPlaying.Progress != models.InitialProgress {
			t.Errorf("expected initial progress %v, got %v", models.InitialProgress, m.nowPlaying.Progress)
		}

		view := m.View()
		if !strings.Contains(view, "Loading...") {
			t.Error("expected Loading... in initial view")
		}
		if !strings.Contains(view, "2:34 / 3:42") {
			t.Error("expected placeholder playback time in initial view")
		}
	})

	t.Run("Navigation", func(t *testing.T) {
		m := newTestModel(t, Deps{})

		m.Update(keyPress("tab"))
		if m.view != MusicView {
			t.Errorf("tab: expected MusicView, got %v", m.view)
		}
		m.Update(keyPress("tab"))
		m.Update(keyPress("tab"))
		if m.view != HomeView {
			t.Errorf("tab should wrap to HomeView, got %v", m.view)
		}
		m.Update(keyPress("shift+tab"))
		if m.view != FavoritesView {
			t.Errorf("shift+tab should wrap to FavoritesView, got %v", m.view)
		}
		m.Update(keyPress("2"))
		if m.view != MusicView {
			t.Errorf("2: expected MusicView, got %v", m.view)
		}
		m.Update(keyPress("1"))
		if m.view != HomeView {
			t.Errorf("1: expected HomeView, got %v", m.view)
		}
	})

	t.Run("Play Toggle", func(t *testing.T) {
		m := newTestModel(t, Deps{})

		m.Update(keyPress(" "))
		if !m.isPlaying {
			t.Error("space should start playback")
		}
		if !strings.Contains(m.View(), "playing") {
			t.Error("expected playing indicator")
		}
		m.Update(keyPress(" "))
		if m.isPlaying {
			t.Error("second space should pause")
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m := newTestModel(t, Deps{})
		_, cmd := m.Update(keyPress("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestModelWeather(t *testing.T) {
	seattle := models.WeatherState{Location: "Seattle", Temperature: "58", Condition: "Clouds", Unit: "°F"}

	t.Run("Resolved", func(t *testing.T) {
		resolver := &stubResolver{state: seattle}
		m := newTestModel(t, Deps{Resolver: resolver})

		run(t, m, m.resolveWeather())

		if m.weather != seattle {
			t.Errorf("expected %+v, got %+v", seattle, m.weather)
		}
		if m.resolving {
			t.Error("resolving should be cleared")
		}
		if !strings.Contains(m.View(), "58°F") {
			t.Error("expected rendered temperature 58°F")
		}
	})

	t.Run("Error Sentinel", func(t *testing.T) {
		resolver := &stubResolver{state: models.WeatherError(), err: errors.New("boom")}
		m := newTestModel(t, Deps{Resolver: resolver})

		run(t, m, m.resolveWeather())

		view := m.View()
		if !strings.Contains(view, "Error") || !strings.Contains(view, "--°F") {
			t.Errorf("expected error sentinel in view, got:\n%s", view)
		}
		if !m.status.isErr {
			t.Error("expected error status")
		}
	})

	t.Run("Refresh Is Rate Limited", func(t *testing.T) {
		resolver := &stubResolver{state: seattle}
		m := newTestModel(t, Deps{Resolver: resolver, RefreshEvery: time.Hour})
		run(t, m, m.resolveWeather())

		_, cmd := m.Update(keyPress("r"))
		run(t, m, cmd)
		if resolver.calls != 2 {
			t.Errorf("expected 2 resolutions, got %d", resolver.calls)
		}

		_, cmd = m.Update(keyPress("r"))
		if cmd != nil {
			t.Error("second refresh within the limit should not resolve")
		}
		if m.status.text == "" {
			t.Error("expected a status explaining the throttled refresh")
		}
	})

	t.Run("Refresh Ignored While Resolving", func(t *testing.T) {
		m := newTestModel(t, Deps{Resolver: &stubResolver{state: seattle}})
		if _, cmd := m.Update(keyPress("r")); cmd != nil {
			t.Error("refresh should wait for the initial resolution")
		}
	})
}

func TestModelTracks(t *testing.T) {
	t.Run("Update Applies Track", func(t *testing.T) {
		m := newTestModel(t, Deps{})

		_, cmd := m.Update(trackUpdatedMsg(playing("Intro", "The xx")))
		if cmd == nil {
			t.Error("expected the model to keep waiting for tracks")
		}
		if m.nowPlaying.Track.SongName != "Intro" {
			t.Errorf("expected Intro, got %s", m.nowPlaying.Track.SongName)
		}
		if len(m.musicList.Items()) != 1 {
			t.Errorf("expected 1 session track, got %d", len(m.musicList.Items()))
		}
	})

	t.Run("Session List De-duplicates", func(t *testing.T) {
		m := newTestModel(t, Deps{})

		m.Update(trackUpdatedMsg(playing("Intro", "The xx")))
		m.Update(trackUpdatedMsg(playing("intro ", "THE XX")))
		m.Update(trackUpdatedMsg(playing("Crystalised", "The xx")))

		if len(m.musicList.Items()) != 2 {
			t.Errorf("expected 2 session tracks, got %d", len(m.musicList.Items()))
		}
		first := m.musicList.Items()[0].(trackItem)
		if first.track.SongName != "Crystalised" {
			t.Errorf("expected newest track first, got %s", first.track.SongName)
		}
	})

	t.Run("Failed Poll Keeps Progress", func(t *testing.T) {
		m := newTestModel(t, Deps{})
		m.Update(trackUpdatedMsg(playing("Intro", "The xx")))

		m.Update(trackUpdatedMsg(tasks.TrackUpdate{Track: models.TrackError(), Err: errors.New("503")}))

		if m.nowPlaying.Track.SongName != "Error" {
			t.Errorf("expected error sentinel, got %s", m.nowPlaying.Track.SongName)
		}
		if m.nowPlaying.Progress != 69.37 {
			t.Errorf("expected progress to stay 69.37, got %v", m.nowPlaying.Progress)
		}
		if len(m.musicList.Items()) != 1 {
			t.Error("failed polls should not be added to the session list")
		}
	})

	t.Run("Poller Feeds Model", func(t *testing.T) {
		source := tu.NewStubTrackSource(tu.StubTrackResponse{
			Payload: &models.TrackPayload{Name: "Islands", Artist: "The xx", Duration: "2:41", CurrentTime: "1:00"},
		})
		poller := tasks.NewPoller(source, time.Hour, nil, quietLogger())
		m := newTestModel(t, Deps{Poller: poller})

		m.Init()

		msg, ok := m.waitForTrack()().(Msg)
		if !ok || msg.kind != MsgTrackUpdated {
			t.Fatalf("expected MsgTrackUpdated, got %#v", msg)
		}
		m.Update(msg)

		if m.nowPlaying.Track.SongName != "Islands" {
			t.Errorf("expected Islands, got %s", m.nowPlaying.Track.SongName)
		}
		if source.Calls() != 1 {
			t.Errorf("expected one immediate poll, got %d", source.Calls())
		}
	})

	t.Run("Close Unblocks Wait", func(t *testing.T) {
		m := newTestModel(t, Deps{})
		m.Close()
		if msg := m.waitForTrack()(); msg != nil {
			t.Errorf("expected nil message after Close, got %#v", msg)
		}
	})
}

func TestModelFavorites(t *testing.T) {
	t.Run("Add Current Track", func(t *testing.T) {
		store := newStubFavorites()
		m := newTestModel(t, Deps{Favorites: store})
		m.Update(trackUpdatedMsg(playing("Intro", "The xx")))

		_, cmd := m.Update(keyPress("a"))
		run(t, m, cmd)

		if len(m.favList.Items()) != 1 {
			t.Fatalf("expected 1 favorite, got %d", len(m.favList.Items()))
		}
		if !strings.Contains(m.status.text, "Intro - The xx") {
			t.Errorf("unexpected status %q", m.status.text)
		}
	})

	t.Run("Duplicate Is Reported", func(t *testing.T) {
		store := newStubFavorites()
		m := newTestModel(t, Deps{Favorites: store})
		m.Update(trackUpdatedMsg(playing("Intro", "The xx")))

		_, cmd := m.Update(keyPress("a"))
		run(t, m, cmd)
		_, cmd = m.Update(keyPress("a"))
		run(t, m, cmd)

		if len(m.favList.Items()) != 1 {
			t.Errorf("duplicate should not be listed twice, got %d", len(m.favList.Items()))
		}
		if m.status.isErr || m.status.text != "Already in favorites" {
			t.Errorf("unexpected status %+v", m.status)
		}
	})

	t.Run("Placeholder Track Is Rejected", func(t *testing.T) {
		store := newStubFavorites()
		store.err = models.FavoriteFromTrack(models.InitialTrack()).Validate()
		m := newTestModel(t, Deps{Favorites: store})

		_, cmd := m.Update(keyPress("a"))
		run(t, m, cmd)

		if !m.status.isErr {
			t.Error("expected an error status")
		}
	})

	t.Run("Without Store", func(t *testing.T) {
		m := newTestModel(t, Deps{})
		if _, cmd := m.Update(keyPress("a")); cmd != nil {
			t.Error("expected no command without a store")
		}
		if !m.status.isErr {
			t.Error("expected an error status")
		}
	})

	t.Run("Load And Remove", func(t *testing.T) {
		store := newStubFavorites()
		fav := models.NewFavorite(0, "Intro", "The xx", "")
		if err := store.Create(fav); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		m := newTestModel(t, Deps{Favorites: store})
		run(t, m, m.loadFavorites())
		if len(m.favList.Items()) != 1 {
			t.Fatalf("expected 1 loaded favorite, got %d", len(m.favList.Items()))
		}

		m.Update(keyPress("3"))
		_, cmd := m.Update(keyPress("d"))
		run(t, m, cmd)

		if len(m.favList.Items()) != 0 {
			t.Errorf("expected favorite to be removed, got %d", len(m.favList.Items()))
		}
		if list, _ := store.List(nil); len(list) != 0 {
			t.Error("expected store to be empty")
		}
	})

	t.Run("Remove Only On Favorites Page", func(t *testing.T) {
		store := newStubFavorites()
		store.Create(models.NewFavorite(0, "Intro", "The xx", ""))
		m := newTestModel(t, Deps{Favorites: store})
		run(t, m, m.loadFavorites())

		m.Update(keyPress("d"))
		if len(m.favList.Items()) != 1 {
			t.Error("d on the home page should not remove favorites")
		}
	})
}

func TestModelOpenCover(t *testing.T) {
	t.Run("Opens Album Cover", func(t *testing.T) {
		var opened string
		m := newTestModel(t, Deps{OpenURL: func(u string) error { opened = u; return nil }})
		m.Update(trackUpdatedMsg(playing("Intro", "The xx")))

		_, cmd := m.Update(keyPress("o"))
		run(t, m, cmd)

		if opened != "https://img.example.com/Intro.jpg" {
			t.Errorf("unexpected url %q", opened)
		}
		if m.status.isErr {
			t.Errorf("unexpected error status %q", m.status.text)
		}
	})

	t.Run("Open Failure", func(t *testing.T) {
		m := newTestModel(t, Deps{OpenURL: func(string) error { return shared.ErrInvalidInput }})
		m.Update(trackUpdatedMsg(playing("Intro", "The xx")))

		_, cmd := m.Update(keyPress("o"))
		run(t, m, cmd)

		if !m.status.isErr {
			t.Error("expected error status")
		}
	})

	t.Run("No Cover", func(t *testing.T) {
		m := newTestModel(t, Deps{})
		if _, cmd := m.Update(keyPress("o")); cmd != nil {
			t.Error("expected no command without a cover")
		}
	})
}
