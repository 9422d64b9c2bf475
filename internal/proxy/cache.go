// Copyright (c) 2026 Rackline. All rights reserved.

package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rackline/rackline/internal/platform/constants"
	requestutil "github.com/rackline/rackline/internal/platform/request"
)

// maxCacheableBytes caps the size of a response body worth caching.
const maxCacheableBytes = 1 << 20

// Cache is a short-TTL Redis response cache for public browse routes.
//
// # Scope
//
// Only anonymous GET traffic is cached: requests carrying a token cookie
// bypass the cache entirely because the backend may personalize pricing.
// Every Redis failure degrades to a plain proxy round trip — the cache can
// make the gateway faster, never broken.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache constructs a [Cache] with the given entry lifetime.
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// cachedResponse is the stored representation of a proxied response.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Middleware serves eligible requests from Redis and captures fresh
// responses on the way out.
func (cache *Cache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		// Only anonymous GETs are cacheable.
		if request.Method != http.MethodGet || requestutil.TokenCookie(request) != "" {
			next.ServeHTTP(writer, request)
			return
		}

		key := cache.key(request)

		if entry, found := cache.lookup(request, key); found {
			writer.Header().Set("Content-Type", entry.ContentType)
			writer.Header().Set("X-Cache", "HIT")
			writer.WriteHeader(entry.Status)
			_, _ = writer.Write(entry.Body)
			return
		}

		recorder := &captureWriter{ResponseWriter: writer, status: http.StatusOK}
		next.ServeHTTP(recorder, request)

		// Store successful, bounded responses only.
		if recorder.status == http.StatusOK && !recorder.overflowed {
			cache.store(request, key, cachedResponse{
				Status:      recorder.status,
				ContentType: recorder.Header().Get("Content-Type"),
				Body:        recorder.buffer.Bytes(),
			})
		}
	})
}

// lookup fetches and decodes a cache entry. A redis.Nil is a plain miss;
// any other failure is logged and treated as a miss.
func (cache *Cache) lookup(request *http.Request, key string) (*cachedResponse, bool) {
	raw, err := cache.client.Get(request.Context(), key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.Warn("proxy_cache_lookup_failed", slog.Any("error", err))
		}
		return nil, false
	}

	var entry cachedResponse
	if err := json.Unmarshal(raw, &entry); err != nil {
		cache.logger.Warn("proxy_cache_decode_failed", slog.Any("error", err))
		return nil, false
	}

	return &entry, true
}

// store persists a cache entry with the configured TTL, best effort.
func (cache *Cache) store(request *http.Request, key string, entry cachedResponse) {
	encoded, err := json.Marshal(entry)
	if err != nil {
		return
	}

	if err := cache.client.Set(request.Context(), key, encoded, cache.ttl).Err(); err != nil {
		cache.logger.Warn("proxy_cache_store_failed", slog.Any("error", err))
	}
}

// key derives the cache key from path and query.
func (cache *Cache) key(request *http.Request) string {
	key := constants.RedisPrefixProxyCache + request.URL.Path
	if request.URL.RawQuery != "" {
		key += "?" + request.URL.RawQuery
	}
	return key
}

// captureWriter tees the response into a bounded buffer while streaming it
// to the client unchanged.
type captureWriter struct {
	http.ResponseWriter
	status     int
	buffer     bytes.Buffer
	overflowed bool
}

func (writer *captureWriter) WriteHeader(code int) {
	writer.status = code
	writer.ResponseWriter.WriteHeader(code)
}

func (writer *captureWriter) Write(data []byte) (int, error) {
	if !writer.overflowed {
		if writer.buffer.Len()+len(data) > maxCacheableBytes {
			writer.overflowed = true
			writer.buffer.Reset()
		} else {
			_, _ = writer.buffer.Write(data)
		}
	}
	return writer.ResponseWriter.Write(data)
}
