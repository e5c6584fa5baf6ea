// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package cache

import (
	"strings"

	"github.com/apex/log"

	"github.com/kwvanderlinde/cachedgo/model"
)

// Statuses for which caching makes sense. The same set cachecontrol uses.
var cachableStatuses = map[int]bool{200: true, 203: true, 300: true, 301: true}

// HEAD could be cached as well, even answered from a cached GET, but isn't
// yet.
var cachableMethods = map[string]bool{"GET": true}

// HTTPAware augments a cache with HTTP-specific knowledge: only sensible
// responses are stored, and entries are only served when the headers named by
// the cached Vary header match the live request.
type HTTPAware struct {
	impl Cache
}

// NewHTTPAware decorates impl with HTTP cacheability rules.
func NewHTTPAware(impl Cache) *HTTPAware {
	return &HTTPAware{impl: impl}
}

// Get returns the underlying entry only if it is servable for request: the
// entry must have a cacheable method and status, and every header named by
// its Vary header must carry the same value in request as it did in the
// cached request.
func (c *HTTPAware) Get(request model.Request) (*model.Entry, bool) {
	entry, ok := c.impl.Get(request)
	if !ok {
		return nil, false
	}

	if !cachableStatuses[entry.Response.Status] || !cachableMethods[entry.Request.Method] {
		discard(entry)
		return nil, false
	}

	if !varyMatches(entry, request) {
		discard(entry)
		return nil, false
	}

	return entry, true
}

// Add stores the response only when the method and status are cacheable;
// otherwise it declines with (nil, nil) and leaves the response untouched.
func (c *HTTPAware) Add(request model.Request, response model.Response) (*model.Entry, error) {
	if !cachableStatuses[response.Status] || !cachableMethods[request.Method] {
		return nil, nil
	}
	return c.impl.Add(request, response)
}

// Delete removes any entry for request from the underlying cache.
func (c *HTTPAware) Delete(request model.Request) error {
	return c.impl.Delete(request)
}

// Close closes the underlying cache.
func (c *HTTPAware) Close() error {
	return c.impl.Close()
}

// varyMatches checks every header named by the cached response's Vary header.
// Each must have been recorded with the cached request and must be present
// with an equal value on the live request. An absent or empty Vary header
// imposes no constraint.
func varyMatches(entry *model.Entry, request model.Request) bool {
	vary := entry.Response.Headers["Vary"]
	for _, key := range strings.Split(vary, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		expected, ok := entry.Request.Headers[key]
		if !ok {
			// Unusual: the entry was stored without the header its own Vary
			// names.
			log.Warnf("missing vary header in cached request: %s", key)
			return false
		}

		value, ok := request.Headers[key]
		if !ok {
			log.Debugf("missing vary header in request: %s", key)
			return false
		}

		if expected != value {
			log.Debugf("incorrect vary header value in request: %s => %s, expected %s", key, value, expected)
			return false
		}
	}
	return true
}

// discard closes the body of an entry that will not be handed to the caller.
func discard(entry *model.Entry) {
	if entry.Response.Body != nil {
		_ = entry.Response.Body.Close()
	}
}
