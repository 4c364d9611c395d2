// Package models defines the state and entities shown by the skytunes dashboard.
//
// The package contains two categories of types:
//
// 1. View state: values replaced wholesale on every refresh and never persisted
//   - [WeatherState] : location, rounded temperature, condition and unit label
//   - [TrackState] : song, artist, clock strings and album cover of the current track
//   - [Coordinates] : a latitude/longitude pair, with [DefaultCoordinates] as the fallback
//
// 2. Persistent entities: database-backed models with full lifecycle management
//   - [Favorite] : a song saved from the dashboard
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps, validation, and soft delete support.
// The [Repository] interface defines standard CRUD operations for database access.
package models
