// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import "context"

// OpenFunc opens an engine for a connection URL. It exists so tests can
// substitute a fake opener.
type OpenFunc func(ctx context.Context, rawURL string) (*Engine, error)

// Cache keeps one open engine per connection URL so that switching back to a
// previously used connection reuses its pool instead of reconnecting.
type Cache struct {
	open    OpenFunc
	engines map[string]*Engine
}

// NewCache returns a cache backed by open, or by Open when open is nil.
func NewCache(open OpenFunc) *Cache {
	if open == nil {
		open = Open
	}
	return &Cache{open: open, engines: make(map[string]*Engine)}
}

// Get returns the cached engine for the URL, opening one on first use.
// A failed open is not cached, so the next attempt retries.
func (c *Cache) Get(ctx context.Context, rawURL string) (*Engine, error) {
	if e, ok := c.engines[rawURL]; ok {
		return e, nil
	}
	e, err := c.open(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	c.engines[rawURL] = e
	return e, nil
}

// Close closes every cached engine, keeping the first error.
func (c *Cache) Close() error {
	var first error
	for url, e := range c.engines {
		if err := e.Close(); err != nil && first == nil {
			first = err
		}
		delete(c.engines, url)
	}
	return first
}
