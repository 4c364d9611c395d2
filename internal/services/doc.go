// Package services implements the remote data sources behind the dashboard.
//
// # Interfaces
//
//   - [Locator] : device coordinates ([IPLocator])
//   - [WeatherProvider] : current conditions ([WeatherService])
//   - [TrackSource] : the track that is playing now ([MusicService], [SpotifyService])
//
// # Authentication
//
// Both track sources authenticate with a bearer token. The token is attached by an
// [oauth2.Transport] over a static token source, so no refresh is attempted.
// The weather service sends its key as the appid query parameter.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrMalformedResponse] : undecodable body or missing conditions
//   - [shared.ErrMissingCredentials] : no key configured
//   - [shared.ErrLocationDenied] : the locator refused the lookup
//   - [shared.ErrLocationUnavailable] : the locator could not be reached
//
// None of the services retry; retry and fallback policy belongs to the caller.
package services
