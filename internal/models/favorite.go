package models

import (
	"fmt"
	"strings"
	"time"
)

// Favorite is a song saved from the dashboard.
type Favorite struct {
	id         string
	sequence   int
	songName   string
	artistName string
	albumCover string
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewFavorite creates a new [Favorite] with timestamps set to now.
func NewFavorite(sequence int, songName, artistName, albumCover string) *Favorite {
	now := time.Now()
	return &Favorite{
		sequence:   sequence,
		songName:   songName,
		artistName: artistName,
		albumCover: albumCover,
		createdAt:  now,
		updatedAt:  now,
	}
}

// FavoriteFromTrack builds an unsaved [Favorite] from the current track.
func FavoriteFromTrack(t TrackState) *Favorite {
	return NewFavorite(0, t.SongName, t.ArtistName, t.AlbumCover)
}

func (f *Favorite) ID() string { return f.id }
func (f *Favorite) Sequence() int { return f.sequence }
func (f *Favorite) SongName() string { return f.songName }
func (f *Favorite) ArtistName() string { return f.artistName }
func (f *Favorite) AlbumCover() string { return f.albumCover }
func (f *Favorite) CreatedAt() time.Time { return f.createdAt }
func (f *Favorite) UpdatedAt() time.Time { return f.updatedAt }
func (f *Favorite) DeletedAt() *time.Time { return f.deletedAt }

func (f *Favorite) SetID(id string) { f.id = id }
func (f *Favorite) SetSequence(seq int) { f.sequence = seq }
func (f *Favorite) SetAlbumCover(cover string) { f.albumCover = cover }
func (f *Favorite) SetCreatedAt(t time.Time) { f.createdAt = t }
func (f *Favorite) SetUpdatedAt(t time.Time) { f.updatedAt = t }
func (f *Favorite) SetDeletedAt(t *time.Time) { f.deletedAt = t }

// Validate rejects favourites without a song/artist and the placeholder or error tracks.
func (f *Favorite) Validate() error {
	if strings.TrimSpace(f.songName) == "" {
		return fmt.Errorf("song name is required")
	}
	if strings.TrimSpace(f.artistName) == "" {
		return fmt.Errorf("artist name is required")
	}

	if e := TrackError(); f.songName == e.SongName && f.artistName == e.ArtistName {
		return fmt.Errorf("cannot save an unavailable track")
	}
	if p := InitialTrack(); f.songName == p.SongName && f.artistName == p.ArtistName {
		return fmt.Errorf("cannot save the placeholder track")
	}

	return nil
}

// Label returns "Song - Artist".
func (f *Favorite) Label() string {
	return f.songName + " - " + f.artistName
}
