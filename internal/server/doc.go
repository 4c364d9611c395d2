// Package server runs a local stand-in for the upstream APIs so the dashboard can be
// demonstrated and tested without credentials.
//
// # Routes
//
//	GET /health
//	GET /data/2.5/weather?lat&lon&units&appid   OpenWeather current conditions
//	GET /music/current-track                    now-playing endpoint
//	GET /v1/me/player/currently-playing         Spotify currently-playing
//
// Weather responses come from a small table of cities; the nearest one to the
// requested coordinates is reported. The music routes walk a looping [Playlist]
// from the moment the server started, so repeated polls see progress advance.
//
// # Middleware
//
// Each route family is mounted as a fiber group behind a [Middleware] guard:
// [RequireAppID] for weather and [RequireBearer] for music. Both are no-ops when
// no credential is configured.
package server
