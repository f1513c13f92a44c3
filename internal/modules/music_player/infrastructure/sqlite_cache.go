package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS resolution_cache (
	source_identifier TEXT PRIMARY KEY,
	stream_url TEXT NOT NULL,
	title TEXT,
	page_url TEXT,
	uploader TEXT,
	codec_hint TEXT NULL
);
CREATE INDEX IF NOT EXISTS idx_resolution_cache_stream_url ON resolution_cache(stream_url);
`

var cachePragmas = []string{
	"PRAGMA journal_mode=WAL;",
	"PRAGMA synchronous=NORMAL;",
	"PRAGMA busy_timeout=5000;",
}

// SQLiteCache is a ResolutionCache backed by a SQLite database file.
// It is safe for concurrent use; each write touches a single row.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens (creating if needed) the cache database at path.
func NewSQLiteCache(ctx context.Context, path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(5)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, p := range cachePragmas {
		if _, err := db.ExecContext(initCtx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if _, err := db.ExecContext(initCtx, cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	slog.Info("opened resolution cache", "path", path)

	return &SQLiteCache{db: db}, nil
}

// Get returns the stored descriptor, or domain.ErrCacheMiss.
func (c *SQLiteCache) Get(
	ctx context.Context,
	id domain.SourceIdentifier,
) (domain.StreamDescriptor, error) {
	var (
		streamURL                string
		title, pageURL, uploader sql.NullString
		codecHint                sql.NullString
	)

	err := c.db.QueryRowContext(ctx,
		`SELECT stream_url, title, page_url, uploader, codec_hint
		 FROM resolution_cache WHERE source_identifier = ?`,
		id.String(),
	).Scan(&streamURL, &title, &pageURL, &uploader, &codecHint)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StreamDescriptor{}, domain.ErrCacheMiss
	}
	if err != nil {
		return domain.StreamDescriptor{}, fmt.Errorf("failed to read cache entry: %w", err)
	}

	return domain.StreamDescriptor{
		StreamURL: streamURL,
		Title:     title.String,
		PageURL:   pageURL.String,
		Uploader:  uploader.String,
		CodecHint: domain.ParseCodecHint(codecHint.String),
	}, nil
}

// Put stores the descriptor, overwriting any previous entry in full.
func (c *SQLiteCache) Put(
	ctx context.Context,
	id domain.SourceIdentifier,
	descriptor domain.StreamDescriptor,
) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO resolution_cache
			(source_identifier, stream_url, title, page_url, uploader, codec_hint)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_identifier) DO UPDATE SET
			stream_url = excluded.stream_url,
			title = excluded.title,
			page_url = excluded.page_url,
			uploader = excluded.uploader,
			codec_hint = excluded.codec_hint`,
		id.String(),
		descriptor.StreamURL,
		nullString(descriptor.Title),
		nullString(descriptor.PageURL),
		nullString(descriptor.Uploader),
		codecHintValue(descriptor.CodecHint),
	)
	if err != nil {
		return &domain.CacheWriteError{Op: "put", Identifier: id.String(), Err: err}
	}
	return nil
}

// UpdateCodecHint sets the codec hint on the entry whose source identifier or
// stream URL equals key.
func (c *SQLiteCache) UpdateCodecHint(
	ctx context.Context,
	key string,
	hint domain.CodecHint,
) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE resolution_cache SET codec_hint = ?
		 WHERE source_identifier = ? OR stream_url = ?`,
		codecHintValue(hint), key, key,
	)
	if err != nil {
		return &domain.CacheWriteError{Op: "update codec hint", Identifier: key, Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return &domain.CacheWriteError{Op: "update codec hint", Identifier: key, Err: err}
	}
	if n == 0 {
		return domain.ErrCacheEntryNotFound
	}
	return nil
}

// LookupCodecHint returns the codec hint stored for a stream URL, or domain.ErrCacheMiss.
func (c *SQLiteCache) LookupCodecHint(
	ctx context.Context,
	streamURL string,
) (domain.CodecHint, error) {
	var codecHint sql.NullString
	err := c.db.QueryRowContext(ctx,
		`SELECT codec_hint FROM resolution_cache WHERE stream_url = ? LIMIT 1`,
		streamURL,
	).Scan(&codecHint)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CodecHintUnknown, domain.ErrCacheMiss
	}
	if err != nil {
		return domain.CodecHintUnknown, fmt.Errorf("failed to read codec hint: %w", err)
	}
	return domain.ParseCodecHint(codecHint.String), nil
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// codecHintValue stores unknown as NULL.
func codecHintValue(hint domain.CodecHint) sql.NullString {
	if !hint.IsKnown() {
		return sql.NullString{}
	}
	return sql.NullString{String: string(hint), Valid: true}
}

// Ensure SQLiteCache implements ports.ResolutionCache.
var _ ports.ResolutionCache = (*SQLiteCache)(nil)
