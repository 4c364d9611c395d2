package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/skytunes/internal/models"
)

var (
	_ list.Item = favoriteItem{}
	_ list.Item = trackItem{}
)

// favoriteItem wraps [models.Favorite] to implement [list.Item].
type favoriteItem struct {
	favorite *models.Favorite
}

func (i favoriteItem) FilterValue() string {
	return i.favorite.SongName() + " " + i.favorite.ArtistName()
}
func (i favoriteItem) Title() string { return i.favorite.SongName() }
func (i favoriteItem) Description() string {
	return fmt.Sprintf("%s • #%d", i.favorite.ArtistName(), i.favorite.Sequence())
}

// trackItem wraps [models.TrackState] to implement [list.Item].
type trackItem struct {
	track models.TrackState
}

func (i trackItem) FilterValue() string { return i.track.SongName + " " + i.track.ArtistName }
func (i trackItem) Title() string       { return i.track.SongName }
func (i trackItem) Description() string {
	desc := i.track.ArtistName
	if i.track.Duration != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Duration)
	}
	return desc
}

func favoriteItems(favorites []*models.Favorite) []list.Item {
	items := make([]list.Item, len(favorites))
	for i, f := range favorites {
		items[i] = favoriteItem{favorite: f}
	}
	return items
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}
