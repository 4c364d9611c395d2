// Package ui implements the skytunes dashboard using bubbletea's Elm architecture.
//
// The TUI has three pages, switched with tab or 1/2/3:
//  1. [HomeView] : the weather card and the now-playing card side by side
//  2. [MusicView] : tracks seen by the poller during this session
//  3. [FavoritesView] : saved songs, filterable with "/"
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Poll results flow from [tasks.Poller] through a channel that a waiting command drains one update at a time,
// so a slow render never blocks the poller.
//
// Weather refreshes (r) are rate limited with golang.org/x/time/rate.
package ui
