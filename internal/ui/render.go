package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/skytunes/internal/formatter"
)

// View renders the navigation bar, the current page and the status line.
func (m *Model) View() string {
	var page string
	switch m.view {
	case HomeView:
		page = m.renderHome()
	case MusicView:
		page = m.renderMusic()
	case FavoritesView:
		page = m.renderFavorites()
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n%s", m.renderNav(), page, m.renderStatus(), m.help.View(m.keys))
}

func (m *Model) renderNav() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		if ViewState(i) == m.view {
			tabs[i] = styles.tabOn.Render(name)
		} else {
			tabs[i] = styles.tab.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, append([]string{styles.big.Render("skytunes")}, tabs...)...)
}

func (m *Model) renderHome() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderWeather(), m.renderPlayer())
}

func (m *Model) renderWeather() string {
	w := m.weather

	var b strings.Builder
	b.WriteString(styles.title.Render("Weather"))
	b.WriteString("\n")
	b.WriteString(formatter.OrLoading(w.Location))
	b.WriteString("\n\n")

	temp := styles.big.Render(formatter.Temperature(w))
	if w.Location == "Error" {
		temp = styles.err.Render(formatter.Temperature(w))
	}
	b.WriteString(temp)
	b.WriteString("\n")
	b.WriteString(styles.subtle.Render(formatter.OrLoading(w.Condition)))

	return styles.card.Render(b.String())
}

func (m *Model) renderPlayer() string {
	t := m.nowPlaying.Track

	cover := styles.subtle.Render("♪ no album cover")
	if t.AlbumCover != "" {
		cover = styles.As("♪ "+t.AlbumCover, styles.accentFg)
	}

	song := styles.big.Render(t.SongName)
	if t.IsError() {
		song = styles.err.Render(t.SongName)
	}

	state := styles.subtle.Render("▶ paused")
	if m.isPlaying {
		state = styles.playing.Render("❚❚ playing")
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("Now Playing"))
	b.WriteString("\n")
	b.WriteString(cover)
	b.WriteString("\n\n")
	b.WriteString(song)
	b.WriteString("\n")
	b.WriteString(t.ArtistName)
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(ClampPercent(m.nowPlaying.Progress) / 100))
	b.WriteString("\n")
	b.WriteString(styles.subtle.Render(formatter.PlaybackTime(t)))
	b.WriteString("  ")
	b.WriteString(state)

	return styles.card.Render(b.String())
}

func (m *Model) renderMusic() string {
	if len(m.musicList.Items()) == 0 {
		return fmt.Sprintf("%s\n%s", m.renderPlayer(), styles.help.Render("Tracks played this session appear here."))
	}
	return m.musicList.View()
}

func (m *Model) renderFavorites() string {
	if m.favorites == nil {
		return styles.warn.Render("Favorites are unavailable without a database. Run `skytunes setup database`.")
	}
	if len(m.favList.Items()) == 0 {
		return styles.help.Render("No favorites yet. Press a on a playing track to save it.")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.remove, m.keys.open})
	return fmt.Sprintf("%s\n%s", m.favList.View(), helpView)
}

func (m *Model) renderStatus() string {
	switch {
	case m.status.text == "":
		return ""
	case m.status.isErr:
		return styles.err.Render(m.status.text)
	default:
		return styles.ok.Render(m.status.text)
	}
}
