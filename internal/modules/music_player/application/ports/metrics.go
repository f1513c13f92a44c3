package ports

// ResolverMetrics receives counters from stream resolution.
type ResolverMetrics interface {
	CacheHit()
	CacheMiss()
	Extraction()
	ExtractionFailed()
	CacheWriteFailed()
}

// PlaybackMetrics receives counters from the playback coordinator.
type PlaybackMetrics interface {
	TrackStarted()
	SetActivePlayers(n int)
}
