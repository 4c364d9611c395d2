// Package tasks runs the two data flows behind the dashboard.
//
// # Weather (one-shot)
//
// [Resolver.Resolve] asks a [services.Locator] for coordinates, waiting at most
// [DefaultLocateTimeout]. Denial, timeout, or a missing locator all fall back to
// [models.DefaultCoordinates]. Exactly one weather request follows; its failure
// produces [models.WeatherError] and is never retried.
//
// # Now playing (repeating)
//
// [Poller.Start] fetches immediately and then on every tick, returning a [PollHandle]
// that owns the loop. Ticks are anchored on initiation and each poll runs in its own
// goroutine, so slow responses overlap. [PollHandle.Stop] cancels future polls only.
//
// Each poll produces a [TrackUpdate] through [FetchTrack]. [NowPlaying.Apply] folds
// updates into display state and keeps the previous progress when a poll fails;
// [NowPlayingStore] does the same behind a lock for consumers on other goroutines.
//
// # Progress
//
// [ComputeProgress] divides two "M:SS" clocks without a zero guard; callers that
// render the value clamp it.
//
// # Progress Reporting
//
// [Resolver.ResolveWithProgress] emits [ProgressUpdate] values on a channel using
// select with default, so an absent or slow reader never blocks resolution.
package tasks
