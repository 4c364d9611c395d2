package ui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/shared"
	"github.com/desertthunder/skytunes/internal/tasks"
	"golang.org/x/time/rate"
)

// ViewState represents the current page in the TUI.
type ViewState int

const (
	HomeView ViewState = iota
	MusicView
	FavoritesView
)

var viewNames = []string{"Home", "Music", "Favorites"}

func (v ViewState) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return ""
}

// WeatherResolver produces the weather widget state once per call.
type WeatherResolver interface {
	Resolve(ctx context.Context) (models.WeatherState, error)
}

// FavoriteStore persists favourite songs.
type FavoriteStore interface {
	Create(fav *models.Favorite) error
	Delete(id string) error
	List(criteria map[string]any) ([]*models.Favorite, error)
}

// Deps bundles the collaborators of the dashboard. Favorites and Poller may be nil.
type Deps struct {
	Resolver  WeatherResolver
	Poller    *tasks.Poller
	Favorites FavoriteStore
	OpenURL   func(string) error
	Logger    *log.Logger
	// RefreshEvery limits manual weather refreshes; zero selects one per 10 seconds.
	RefreshEvery time.Duration
}

type status struct {
	text  string
	isErr bool
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	view   ViewState
	width  int
	height int

	resolver  WeatherResolver
	poller    *tasks.Poller
	handle    *tasks.PollHandle
	updates   chan tasks.TrackUpdate
	favorites FavoriteStore
	openURL   func(string) error
	limiter   *rate.Limiter
	logger    *log.Logger

	weather    models.WeatherState
	resolving  bool
	nowPlaying tasks.NowPlaying
	isPlaying  bool
	seen       map[string]struct{}

	musicList list.Model
	favList   list.Model
	bar       progress.Model
	status    status
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	ctx, cancel := context.WithCancel(ctx)

	every := deps.RefreshEvery
	if every <= 0 {
		every = 10 * time.Second
	}
	if deps.OpenURL == nil {
		deps.OpenURL = shared.OpenURL
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}

	favList := newList("Favorites", nil)
	favList.FilterInput.Prompt = "Find in Favorites: "

	return &Model{
		ctx:        ctx,
		cancel:     cancel,
		view:       HomeView,
		resolver:   deps.Resolver,
		poller:     deps.Poller,
		updates:    make(chan tasks.TrackUpdate, 8),
		favorites:  deps.Favorites,
		openURL:    deps.OpenURL,
		limiter:    rate.NewLimiter(rate.Every(every), 1),
		logger:     deps.Logger,
		weather:    models.LoadingWeather(),
		resolving:  true,
		nowPlaying: tasks.InitialNowPlaying(),
		seen:       make(map[string]struct{}),
		musicList:  newList("Played This Session", nil),
		favList:    favList,
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(36), progress.WithoutPercentage()),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init resolves the weather, starts the now-playing poller and loads favourites.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.resolveWeather(), m.loadFavorites()}

	if m.poller != nil {
		m.handle = m.poller.WithSink(m.forwardTrack).Start(m.ctx)
		cmds = append(cmds, m.waitForTrack())
	}

	return tea.Batch(cmds...)
}

// Close stops polling and releases the model's context. Safe to call more than once.
func (m *Model) Close() {
	if m.handle != nil {
		m.handle.Stop()
	}
	m.cancel()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.musicList.SetSize(msg.Width-4, msg.Height-8)
		m.favList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgWeatherResolved:
		res := msg.data.(weatherResult)
		m.resolving = false
		m.weather = res.state
		if res.err != nil {
			m.status = status{text: "Weather unavailable", isErr: true}
		}
		return m, nil

	case MsgTrackUpdated:
		m.applyTrack(msg.data.(tasks.TrackUpdate))
		return m, m.waitForTrack()

	case MsgFavoritesLoaded:
		res := msg.data.(favoritesResult)
		if res.err != nil {
			m.status = status{text: fmt.Sprintf("Could not load favorites: %v", res.err), isErr: true}
			return m, nil
		}
		return m, m.favList.SetItems(favoriteItems(res.favorites))

	case MsgFavoriteSaved:
		res := msg.data.(favoriteResult)
		if res.err != nil {
			if errors.Is(res.err, shared.ErrAlreadyExists) {
				m.status = status{text: "Already in favorites"}
			} else {
				m.status = status{text: fmt.Sprintf("Could not save favorite: %v", res.err), isErr: true}
			}
			return m, nil
		}
		m.status = status{text: fmt.Sprintf("Saved %s", res.favorite.Label())}
		return m, m.favList.InsertItem(len(m.favList.Items()), favoriteItem{favorite: res.favorite})

	case MsgFavoriteRemoved:
		res := msg.data.(favoriteResult)
		if res.err != nil {
			m.status = status{text: fmt.Sprintf("Could not remove favorite: %v", res.err), isErr: true}
			return m, nil
		}
		m.status = status{text: fmt.Sprintf("Removed %s", res.favorite.Label())}
		for i, item := range m.favList.Items() {
			if fi, ok := item.(favoriteItem); ok && fi.favorite.ID() == res.favorite.ID() {
				m.favList.RemoveItem(i)
				break
			}
		}
		return m, nil

	case MsgStatus:
		m.status = msg.data.(status)
		return m, nil
	}

	return m, nil
}

// applyTrack folds a poll result into the widget and records new tracks in the session list.
func (m *Model) applyTrack(u tasks.TrackUpdate) {
	m.nowPlaying = m.nowPlaying.Apply(u)
	if u.Err != nil {
		return
	}

	k := shared.NormalizeTrackKey(u.Track.SongName, u.Track.ArtistName)
	if _, ok := m.seen[k]; ok {
		return
	}
	m.seen[k] = struct{}{}
	m.musicList.InsertItem(0, trackItem{track: u.Track})
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering() {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		m.view = (m.view + 1) % ViewState(len(viewNames))
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.view = (m.view + ViewState(len(viewNames)) - 1) % ViewState(len(viewNames))
		return m, nil
	case key.Matches(msg, m.keys.home):
		m.view = HomeView
		return m, nil
	case key.Matches(msg, m.keys.music):
		m.view = MusicView
		return m, nil
	case key.Matches(msg, m.keys.favs):
		m.view = FavoritesView
		return m, nil
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.play):
		m.isPlaying = !m.isPlaying
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.refreshWeather()
	case key.Matches(msg, m.keys.favorite):
		return m, m.saveFavorite(m.selectedTrack())
	case key.Matches(msg, m.keys.open):
		return m, m.openCover()
	case m.view == FavoritesView && key.Matches(msg, m.keys.remove):
		return m, m.removeFavorite()
	}

	return m.updateLists(msg)
}

func (m *Model) filtering() bool {
	switch m.view {
	case MusicView:
		return m.musicList.FilterState() == list.Filtering
	case FavoritesView:
		return m.favList.FilterState() == list.Filtering
	}
	return false
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MusicView:
		m.musicList, cmd = m.musicList.Update(msg)
	case FavoritesView:
		m.favList, cmd = m.favList.Update(msg)
	}
	return m, cmd
}

// selectedTrack is the highlighted session track on the Music page and the live track elsewhere.
func (m *Model) selectedTrack() models.TrackState {
	if m.view == MusicView {
		if item, ok := m.musicList.SelectedItem().(trackItem); ok {
			return item.track
		}
	}
	return m.nowPlaying.Track
}

// forwardTrack is the poller sink; it hands updates to the bubbletea loop until the model closes.
func (m *Model) forwardTrack(u tasks.TrackUpdate) {
	select {
	case m.updates <- u:
	case <-m.ctx.Done():
	}
}

func (m *Model) waitForTrack() tea.Cmd {
	return func() tea.Msg {
		select {
		case u := <-m.updates:
			return trackUpdatedMsg(u)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) resolveWeather() tea.Cmd {
	if m.resolver == nil {
		return nil
	}
	return func() tea.Msg {
		state, err := m.resolver.Resolve(m.ctx)
		return weatherResolvedMsg(state, err)
	}
}

// refreshWeather re-runs resolution, rate limited so a held key does not flood the weather API.
func (m *Model) refreshWeather() tea.Cmd {
	if m.resolving {
		return nil
	}
	if !m.limiter.Allow() {
		m.status = status{text: "Weather was refreshed recently, try again shortly"}
		return nil
	}

	m.resolving = true
	m.status = status{}
	return m.resolveWeather()
}

func (m *Model) loadFavorites() tea.Cmd {
	if m.favorites == nil {
		return nil
	}
	return func() tea.Msg {
		favorites, err := m.favorites.List(nil)
		return favoritesLoadedMsg(favorites, err)
	}
}

func (m *Model) saveFavorite(track models.TrackState) tea.Cmd {
	if m.favorites == nil {
		m.status = status{text: "Favorites need a database; run setup database", isErr: true}
		return nil
	}
	return func() tea.Msg {
		fav := models.FavoriteFromTrack(track)
		err := m.favorites.Create(fav)
		if err != nil {
			m.logger.Warn("save favorite failed", "song", track.SongName, "error", err)
		}
		return favoriteSavedMsg(fav, err)
	}
}

func (m *Model) removeFavorite() tea.Cmd {
	item, ok := m.favList.SelectedItem().(favoriteItem)
	if !ok || m.favorites == nil {
		return nil
	}
	return func() tea.Msg {
		return favoriteRemovedMsg(item.favorite, m.favorites.Delete(item.favorite.ID()))
	}
}

func (m *Model) openCover() tea.Cmd {
	cover := m.selectedTrack().AlbumCover
	if m.view == FavoritesView {
		if item, ok := m.favList.SelectedItem().(favoriteItem); ok {
			cover = item.favorite.AlbumCover()
		}
	}
	if cover == "" {
		m.status = status{text: "No album cover for this track"}
		return nil
	}
	return func() tea.Msg {
		if err := m.openURL(cover); err != nil {
			return statusMsg(fmt.Sprintf("Could not open cover: %v", err), true)
		}
		return statusMsg("Opened album cover", false)
	}
}

// ClampPercent maps a raw progress value onto [0, 100] for rendering.
// Non-finite values (0/0, x/0) render as 0.
func ClampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p), math.IsInf(p, 0), p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
