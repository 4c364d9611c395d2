package models

// Placeholder and fallback values for [TrackState] fields.
const (
	UnknownSong     = "Unknown Song"
	UnknownArtist   = "Unknown Artist"
	DefaultDuration = "3:42"
	DefaultCurrent  = "2:34"
	InitialProgress = 35.0
)

// TrackState is what the music widget renders.
type TrackState struct {
	SongName    string `json:"songName"`
	ArtistName  string `json:"artistName"`
	Duration    string `json:"duration"`
	CurrentTime string `json:"currentTime"`
	AlbumCover  string `json:"albumCover"`
}

// InitialTrack returns the placeholder shown before the first poll completes.
func InitialTrack() TrackState {
	return TrackState{
		SongName:    "Song Name",
		ArtistName:  "Artist Name",
		Duration:    DefaultDuration,
		CurrentTime: DefaultCurrent,
	}
}

// TrackError returns the sentinel state shown after a failed poll.
func TrackError() TrackState {
	return TrackState{
		SongName:    "Error",
		ArtistName:  "Unable to load",
		Duration:    "0:00",
		CurrentTime: "0:00",
	}
}

// IsError reports whether t is the failed-poll sentinel.
func (t TrackState) IsError() bool {
	return t == TrackError()
}

// TrackPayload mirrors the "track" object returned by the now-playing endpoint.
// Every field is optional; absent fields decode as empty strings.
type TrackPayload struct {
	Name        string `json:"name,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Duration    string `json:"duration,omitempty"`
	CurrentTime string `json:"currentTime,omitempty"`
	AlbumCover  string `json:"albumCover,omitempty"`
}

// NowPlayingResponse is the envelope returned by GET /current-track.
type NowPlayingResponse struct {
	Track TrackPayload `json:"track"`
}
