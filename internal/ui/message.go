package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgWeatherResolved MsgKind = iota
	MsgTrackUpdated
	MsgFavoritesLoaded
	MsgFavoriteSaved
	MsgFavoriteRemoved
	MsgStatus
)

type weatherResult struct {
	state models.WeatherState
	err   error
}

type favoritesResult struct {
	favorites []*models.Favorite
	err       error
}

type favoriteResult struct {
	favorite *models.Favorite
	err      error
}

// weatherResolvedMsg is the constructor for [MsgWeatherResolved]
func weatherResolvedMsg(state models.WeatherState, err error) Msg {
	return Msg{kind: MsgWeatherResolved, data: weatherResult{state, err}}
}

// trackUpdatedMsg is the constructor for [MsgTrackUpdated]
func trackUpdatedMsg(update tasks.TrackUpdate) Msg {
	return Msg{kind: MsgTrackUpdated, data: update}
}

// favoritesLoadedMsg is the constructor for [MsgFavoritesLoaded]
func favoritesLoadedMsg(favorites []*models.Favorite, err error) Msg {
	return Msg{kind: MsgFavoritesLoaded, data: favoritesResult{favorites, err}}
}

// favoriteSavedMsg is the constructor for [MsgFavoriteSaved]
func favoriteSavedMsg(favorite *models.Favorite, err error) Msg {
	return Msg{kind: MsgFavoriteSaved, data: favoriteResult{favorite, err}}
}

// favoriteRemovedMsg is the constructor for [MsgFavoriteRemoved]
func favoriteRemovedMsg(favorite *models.Favorite, err error) Msg {
	return Msg{kind: MsgFavoriteRemoved, data: favoriteResult{favorite, err}}
}

// statusMsg is the constructor for [MsgStatus]
func statusMsg(text string, isErr bool) Msg {
	return Msg{kind: MsgStatus, data: status{text: text, isErr: isErr}}
}
