package client

import (
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// NewCachingHTTPClient returns an HTTP client that honours Cache-Control on
// responses, used to fetch the identity provider's JWKS. With an empty
// cacheDir the cache is kept in memory.
func NewCachingHTTPClient(cacheDir string, timeout time.Duration) *http.Client {
	var cache httpcache.Cache = httpcache.NewMemoryCache()
	if cacheDir != "" {
		cache = diskcache.New(cacheDir)
	}

	return &http.Client{
		Transport: httpcache.NewTransport(cache),
		Timeout:   timeout,
	}
}
