// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package transport

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return string(body)
}

func TestRoundTrip_SecondGetServedFromCache(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("ETag", "gibberish")
		fmt.Fprint(w, "some contents")
	}))
	defer server.Close()

	client := Client(t.TempDir())

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	assert.Equal(t, "some contents", drain(t, resp))
	assert.Equal(t, int64(1), hits.Load())

	resp, err = client.Get(server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gibberish", resp.Header.Get("ETag"))
	assert.Equal(t, "some contents", drain(t, resp))
	assert.Equal(t, int64(1), hits.Load(), "the second request must not reach the server")
}

func TestRoundTrip_UncachableStatusIsNotCached(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	client := Client(t.TempDir())

	for i := 0; i < 2; i++ {
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		drain(t, resp)
	}

	assert.Equal(t, int64(2), hits.Load())
}

func TestRoundTrip_PostIsNotCached(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "created")
	}))
	defer server.Close()

	client := Client(t.TempDir())

	for i := 0; i < 2; i++ {
		resp, err := client.Post(server.URL, "text/plain", nil)
		require.NoError(t, err)
		drain(t, resp)
	}

	assert.Equal(t, int64(2), hits.Load())
}

func TestRoundTrip_PutInvalidatesCachedEntry(t *testing.T) {
	var gets atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets.Add(1)
		}
		fmt.Fprint(w, "state")
	}))
	defer server.Close()

	client := Client(t.TempDir())

	// Prime the cache.
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	drain(t, resp)
	require.Equal(t, int64(1), gets.Load())

	// Mutate the resource; the cached response is now stale.
	req, err := http.NewRequest(http.MethodPut, server.URL, nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	drain(t, resp)

	// The next GET must go back to the server.
	resp, err = client.Get(server.URL)
	require.NoError(t, err)
	drain(t, resp)
	assert.Equal(t, int64(2), gets.Load())
}

func TestRoundTrip_VaryMismatchGoesToNetwork(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Vary", "Accept")
		fmt.Fprintf(w, "as %s", r.Header.Get("Accept"))
	}))
	defer server.Close()

	dir := t.TempDir()
	client := Client(dir)

	get := func(accept string) string {
		req, err := http.NewRequest(http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		req.Header.Set("Accept", accept)
		resp, err := client.Do(req)
		require.NoError(t, err)
		return drain(t, resp)
	}

	assert.Equal(t, "as application/json", get("application/json"))
	require.Equal(t, int64(1), hits.Load())

	// Same Accept: answered from cache.
	assert.Equal(t, "as application/json", get("application/json"))
	assert.Equal(t, int64(1), hits.Load())

	// Different Accept: the Vary check forces a fresh request.
	get("application/xml")
	assert.Equal(t, int64(2), hits.Load())
}

func TestClose_ClosesCache(t *testing.T) {
	tr := NewDefault(t.TempDir())
	assert.NoError(t, tr.Close())
}
