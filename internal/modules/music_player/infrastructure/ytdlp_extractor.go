package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

const (
	ytdlpFormat = "bestaudio/best"
	ytdlpPrint  = "%(url)s\t%(title)s\t%(webpage_url)s\t%(uploader)s"
	// ytdlpMissing is what yt-dlp prints for a field it has no value for.
	ytdlpMissing = "NA"
)

// YtdlpConfig configures the yt-dlp extractor.
type YtdlpConfig struct {
	// Path is the yt-dlp executable. Empty uses the one on PATH.
	Path string
	// CookiesFile is passed to yt-dlp as --cookies when set.
	CookiesFile string
}

// YtdlpExtractor resolves source identifiers to stream URLs with yt-dlp.
// Free-text queries are first turned into a page URL by the searcher, and
// Spotify links into a free-text query by the metadata lookup.
type YtdlpExtractor struct {
	config   YtdlpConfig
	searcher ports.Searcher
	metadata ports.TrackMetadataLookup
}

// NewYtdlpExtractor creates a new YtdlpExtractor. searcher may be nil, in
// which case queries use yt-dlp's own YouTube search. metadata may be nil,
// in which case Spotify links cannot be played.
func NewYtdlpExtractor(
	config YtdlpConfig,
	searcher ports.Searcher,
	metadata ports.TrackMetadataLookup,
) *YtdlpExtractor {
	return &YtdlpExtractor{
		config:   config,
		searcher: searcher,
		metadata: metadata,
	}
}

// Extract resolves the identifier to a stream URL and metadata.
func (e *YtdlpExtractor) Extract(
	ctx context.Context,
	id domain.SourceIdentifier,
) (*ports.ExtractResult, error) {
	query := domain.NewSearchQuery(id)
	if !query.IsValid() {
		return nil, domain.ErrNoResults
	}

	target, hit, err := e.target(ctx, query)
	if err != nil {
		return nil, err
	}

	result, err := e.run(ctx, target)
	if err != nil {
		return nil, err
	}

	if hit != nil {
		if result.Title == "" {
			result.Title = hit.Title
		}
		if result.Uploader == "" {
			result.Uploader = hit.Uploader
		}
		if result.PageURL == "" {
			result.PageURL = hit.PageURL
		}
	}

	return result, nil
}

// target picks what yt-dlp should be run against.
func (e *YtdlpExtractor) target(
	ctx context.Context,
	query domain.SearchQuery,
) (string, *ports.SearchResult, error) {
	if query.NeedsMetadataLookup() {
		looked, err := e.lookup(ctx, query)
		if err != nil {
			return "", nil, err
		}
		query = looked
	}

	if query.IsURL || e.searcher == nil {
		return query.YtdlpQuery(), nil, nil
	}

	results, err := e.searcher.Search(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return "", nil, ctx.Err()
		}
		slog.Warn("search failed, falling back to yt-dlp search",
			"query", query.Query,
			"source", query.Source,
			"error", err,
		)
		return query.YtdlpQuery(), nil, nil
	}
	if len(results) == 0 {
		return "", nil, domain.ErrNoResults
	}

	return results[0].PageURL, &results[0], nil
}

// lookup turns a Spotify link into a YouTube query for its title and artist.
func (e *YtdlpExtractor) lookup(
	ctx context.Context,
	query domain.SearchQuery,
) (domain.SearchQuery, error) {
	if e.metadata == nil {
		return domain.SearchQuery{}, fmt.Errorf("%w: no metadata lookup for %s links",
			domain.ErrNoMetadata, query.Source)
	}

	meta, err := e.metadata.Lookup(ctx, query.Query)
	if err != nil {
		return domain.SearchQuery{}, fmt.Errorf("failed to look up %s: %w", query.Query, err)
	}

	looked := domain.MetadataSearchQuery(meta.Title, meta.Artist)
	slog.Debug("looked up link metadata", "url", query.Query, "query", looked.Query)
	return looked, nil
}

func (e *YtdlpExtractor) run(ctx context.Context, target string) (*ports.ExtractResult, error) {
	cmd := ytdlp.New().
		Format(ytdlpFormat).
		Print(ytdlpPrint).
		NoPlaylist().
		NoWarnings().
		IgnoreConfig()
	if e.config.Path != "" {
		cmd.SetExecutable(e.config.Path)
	}

	args := []string{"--skip-download"}
	if e.config.CookiesFile != "" {
		args = append(args, "--cookies", e.config.CookiesFile)
	}
	args = append(args, target)

	res, err := cmd.Run(ctx, args...)
	if err != nil {
		if res != nil {
			if msg := lastLine(res.Stderr); msg != "" {
				return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, msg)
			}
		}
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	return parseYtdlpOutput(res.Stdout)
}

// parseYtdlpOutput reads the first printed line of url, title, page URL and uploader.
func parseYtdlpOutput(stdout string) (*ports.ExtractResult, error) {
	for line := range strings.SplitSeq(strings.TrimSpace(stdout), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.SplitN(line, "\t", 4)
		for len(fields) < 4 {
			fields = append(fields, "")
		}
		for i := range fields {
			fields[i] = ytdlpField(fields[i])
		}

		if fields[0] == "" {
			return nil, domain.ErrNoStream
		}

		return &ports.ExtractResult{
			StreamURL: fields[0],
			Title:     fields[1],
			PageURL:   fields[2],
			Uploader:  fields[3],
		}, nil
	}

	return nil, errors.Join(domain.ErrNoStream, errors.New("yt-dlp printed nothing"))
}

func ytdlpField(s string) string {
	s = strings.TrimSpace(s)
	if s == ytdlpMissing {
		return ""
	}
	return s
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// Ensure YtdlpExtractor implements ports.Extractor.
var _ ports.Extractor = (*YtdlpExtractor)(nil)
