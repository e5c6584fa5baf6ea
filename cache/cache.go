// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package cache

import (
	"github.com/kwvanderlinde/cachedgo/model"
)

// Cache is an abstraction of a response cache.
//
// A response cache has a relatively narrow scope: to remember a response such
// that it can be recalled later for a matching request. This deliberately
// precludes certain responsibilities, such as automatic cache invalidation.
// We rely on callers to determine when an entry is stale, and how to replace
// it.
type Cache interface {
	// Get retrieves a cached response matching request. The second return is
	// false when there is no valid entry. The caller owns the returned entry's
	// response body and must close it.
	Get(request model.Request) (*model.Entry, bool)

	// Add stores a response in the cache. It should only be called when there
	// is not already a cached response for request; any prior entry should
	// first be Delete()d.
	//
	// The response body may be consumed as part of caching. The caller must be
	// sure to read from the returned entry's response body instead. A cache
	// may decline to store the response, returning (nil, nil).
	Add(request model.Request, response model.Response) (*model.Entry, error)

	// Delete removes the cached response corresponding to request. Deleting an
	// entry that does not exist is not an error.
	Delete(request model.Request) error

	// Close releases any resources associated with the cache.
	Close() error
}
