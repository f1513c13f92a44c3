package infrastructure

import (
	"context"
	"fmt"

	"github.com/ppalone/ytsearch"
	"github.com/raitonoberu/ytmusic"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// DefaultSearchLimit is the number of hits a searcher returns at most.
const DefaultSearchLimit = 5

func youTubeWatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func youTubeMusicWatchURL(videoID string) string {
	return "https://music.youtube.com/watch?v=" + videoID
}

// YouTubeSearcher searches YouTube videos.
type YouTubeSearcher struct {
	client *ytsearch.Client
	limit  int
}

// NewYouTubeSearcher creates a new YouTubeSearcher.
func NewYouTubeSearcher(limit int) *YouTubeSearcher {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &YouTubeSearcher{
		client: ytsearch.NewClient(nil),
		limit:  limit,
	}
}

// Search returns video hits in relevance order.
func (s *YouTubeSearcher) Search(
	ctx context.Context,
	query domain.SearchQuery,
) ([]ports.SearchResult, error) {
	res, err := s.client.Search(ctx, query.Query)
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	results := make([]ports.SearchResult, 0, s.limit)
	for _, v := range res.Results {
		if v.VideoID == "" {
			continue
		}
		results = append(results, ports.SearchResult{
			Title:   v.Title,
			PageURL: youTubeWatchURL(v.VideoID),
		})
		if len(results) == s.limit {
			break
		}
	}
	return results, nil
}

// YouTubeMusicSearcher searches YouTube Music tracks.
type YouTubeMusicSearcher struct {
	limit int
}

// NewYouTubeMusicSearcher creates a new YouTubeMusicSearcher.
func NewYouTubeMusicSearcher(limit int) *YouTubeMusicSearcher {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &YouTubeMusicSearcher{limit: limit}
}

// Search returns track hits in relevance order.
// The underlying client takes no context, so a cancelled ctx abandons the request.
func (s *YouTubeMusicSearcher) Search(
	ctx context.Context,
	query domain.SearchQuery,
) ([]ports.SearchResult, error) {
	type outcome struct {
		results []ports.SearchResult
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := ytmusic.TrackSearch(query.Query).Next()
		if err != nil {
			done <- outcome{err: fmt.Errorf("youtube music search failed: %w", err)}
			return
		}

		results := make([]ports.SearchResult, 0, s.limit)
		for _, v := range res.Tracks {
			if v.VideoID == "" {
				continue
			}
			hit := ports.SearchResult{
				Title:   v.Title,
				PageURL: youTubeMusicWatchURL(v.VideoID),
			}
			if len(v.Artists) > 0 {
				hit.Uploader = v.Artists[0].Name
			}
			results = append(results, hit)
			if len(results) == s.limit {
				break
			}
		}
		done <- outcome{results: results}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		return o.results, o.err
	}
}

// SourceSearcher routes a query to the searcher for its search source.
type SourceSearcher struct {
	searchers map[domain.SearchSource]ports.Searcher
}

// NewSourceSearcher creates a SourceSearcher for YouTube and YouTube Music.
func NewSourceSearcher(youTube, youTubeMusic ports.Searcher) *SourceSearcher {
	return &SourceSearcher{
		searchers: map[domain.SearchSource]ports.Searcher{
			domain.SourceYouTube:      youTube,
			domain.SourceYouTubeMusic: youTubeMusic,
		},
	}
}

// Search delegates to the searcher registered for query.Source.
func (s *SourceSearcher) Search(
	ctx context.Context,
	query domain.SearchQuery,
) ([]ports.SearchResult, error) {
	searcher, ok := s.searchers[query.Source]
	if !ok || searcher == nil {
		return nil, fmt.Errorf("no searcher for source %q", query.Source)
	}
	return searcher.Search(ctx, query)
}

// Compile-time checks that the searchers implement ports.Searcher.
var (
	_ ports.Searcher = (*YouTubeSearcher)(nil)
	_ ports.Searcher = (*YouTubeMusicSearcher)(nil)
	_ ports.Searcher = (*SourceSearcher)(nil)
)
