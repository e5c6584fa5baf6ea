// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

// Package transport plugs a response cache into net/http. Transport is an
// http.RoundTripper: cache hits are served without touching the network, and
// misses are offered to the cache as the caller drains the body.
package transport

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/apex/log"

	"github.com/kwvanderlinde/cachedgo/cache"
	"github.com/kwvanderlinde/cachedgo/cache/file"
	"github.com/kwvanderlinde/cachedgo/model"
)

// Methods whose success means any cached response for the URI is out of date.
var invalidatingMethods = map[string]bool{"PUT": true, "DELETE": true}

// Transport is a caching http.RoundTripper.
type Transport struct {
	cache cache.Cache
	base  http.RoundTripper
}

// New wraps base with the given cache. A nil base means
// http.DefaultTransport.
func New(c cache.Cache, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{cache: c, base: base}
}

// NewDefault builds the standard stack: an HTTP-aware cache over a disk store
// rooted at dir with the default fanout.
func NewDefault(dir string) *Transport {
	return New(cache.NewHTTPAware(file.New(dir, file.DefaultLevels)), nil)
}

// Client returns an http.Client that caches responses under dir.
func Client(dir string) *http.Client {
	return &http.Client{Transport: NewDefault(dir)}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	request := model.Request{
		Method:  req.Method,
		URI:     req.URL.String(),
		Headers: flatten(req.Header),
	}

	if entry, ok := t.cache.Get(request); ok {
		log.Debugf("cache hit: %s", request.URI)
		return synthesize(entry, req), nil
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// A successful mutation means whatever we had cached for this URI no
	// longer reflects the resource.
	if invalidatingMethods[request.Method] && resp.StatusCode < 400 {
		if err := t.cache.Delete(request); err != nil {
			log.WithError(err).Warnf("failed to invalidate cache for %s", request.URI)
		}
		return resp, nil
	}

	response := model.Response{
		Status:  resp.StatusCode,
		Reason:  reason(resp),
		Headers: flatten(resp.Header),
		Body:    resp.Body,
	}

	entry, err := t.cache.Add(request, response)
	if err != nil {
		log.WithError(err).Warnf("failed to cache response for %s", request.URI)
		return resp, nil
	}
	if entry == nil {
		// The cache declined (non-cacheable method or status).
		return resp, nil
	}

	// The caller's reads now populate the cache.
	resp.Body = entry.Response.Body
	return resp, nil
}

// Close closes the underlying cache.
func (t *Transport) Close() error {
	return t.cache.Close()
}

// synthesize converts a cache entry into an *http.Response for req.
func synthesize(entry *model.Entry, req *http.Request) *http.Response {
	header := make(http.Header, len(entry.Response.Headers))
	for k, v := range entry.Response.Headers {
		header.Set(k, v)
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", entry.Response.Status, entry.Response.Reason),
		StatusCode:    entry.Response.Status,
		Proto:         req.Proto,
		ProtoMajor:    req.ProtoMajor,
		ProtoMinor:    req.ProtoMinor,
		Header:        header,
		Body:          entry.Response.Body,
		ContentLength: -1,
		Request:       req,
	}
}

// flatten reduces an http.Header to the single-valued map the cache model
// uses. Multi-valued headers keep their canonical comma-joined form.
func flatten(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for k, vs := range header {
		flat[k] = strings.Join(vs, ", ")
	}
	return flat
}

// reason extracts the reason phrase from a response status line, falling back
// to the standard text for the code.
func reason(resp *http.Response) string {
	prefix := fmt.Sprintf("%d ", resp.StatusCode)
	if len(resp.Status) > len(prefix) && resp.Status[:len(prefix)] == prefix {
		return resp.Status[len(prefix):]
	}
	return http.StatusText(resp.StatusCode)
}
