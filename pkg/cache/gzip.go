package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"time"
)

// GzipCache compresses values before handing them to the wrapped cache.
// WSDL documents run to several megabytes and compress well.
type GzipCache struct {
	next  Cache
	level int
}

// NewGzipCache wraps next with default compression
func NewGzipCache(next Cache) *GzipCache {
	return NewGzipCacheWithLevel(next, gzip.DefaultCompression)
}

// NewGzipCacheWithLevel wraps next with the given gzip level
func NewGzipCacheWithLevel(next Cache, level int) *GzipCache {
	return &GzipCache{next: next, level: level}
}

// Get implements Cache
func (c *GzipCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.next.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}

	value, err := decompress(data)
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements Cache
func (c *GzipCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	data, err := compress(value, c.level)
	if err != nil {
		return err
	}
	return c.next.Set(ctx, key, data, ttl)
}

// Close closes the wrapped cache
func (c *GzipCache) Close(ctx context.Context) error {
	return c.next.Close(ctx)
}

func compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer

	writer, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("failed to read compressed data: %w", err)
	}

	return buf.Bytes(), nil
}
