package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheMiss is returned by a cache lookup for an identifier it has no entry for.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheEntryNotFound is returned by a codec hint update that matched no entry.
	ErrCacheEntryNotFound = errors.New("cache entry not found")

	// ErrNoResults is returned when a search query found nothing to play.
	ErrNoResults = errors.New("no results found")

	// ErrNoStream is returned when extraction succeeded but yielded no stream URL.
	ErrNoStream = errors.New("no playable stream")

	// ErrNoMetadata is returned when a link's title could not be looked up.
	ErrNoMetadata = errors.New("no track metadata found")
)

// ResolutionError reports that a source identifier could not be resolved.
type ResolutionError struct {
	Identifier string
	Err        error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %q: %v", e.Identifier, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// CacheWriteError reports that a resolution could not be persisted.
type CacheWriteError struct {
	Op         string
	Identifier string
	Err        error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("cache %s %q: %v", e.Op, e.Identifier, e.Err)
}

func (e *CacheWriteError) Unwrap() error {
	return e.Err
}
