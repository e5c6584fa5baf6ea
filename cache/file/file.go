// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

// Package file implements the disk-backed response cache. Entry metadata
// lives under entries/ as JSON and response bodies under bodies/, both at a
// path derived from the SHA-256 of the request URI. Bodies are streamed to
// disk as the consumer reads them, never buffered in memory.
package file

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"

	"github.com/kwvanderlinde/cachedgo/model"
	"github.com/kwvanderlinde/cachedgo/internal/tee"
	"github.com/kwvanderlinde/cachedgo/internal/util"
)

// DefaultLevels is the fanout used when callers have no opinion.
const DefaultLevels = 5

// sizeUnknown marks an entry whose body was never fully drained. Such an
// entry is not servable.
const sizeUnknown = -1

// Store is a Cache backed by a directory tree.
type Store struct {
	dir      string
	entryDir string
	bodyDir  string
	levels   int
}

// diskEntry is the JSON form of a cache entry. The body is recorded as a
// path relative to the bodies directory plus the byte count the file should
// have once the add completes.
type diskEntry struct {
	Request  model.Request `json:"request"`
	Response diskResponse  `json:"response"`
}

type diskResponse struct {
	Status  int               `json:"status"`
	Reason  string            `json:"reason"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
	Size    int64             `json:"size"`
}

// New creates a file cache rooted at dir. levels is the number of
// single-character subdirectory levels used to fan out entries; it is clamped
// to [0, 20].
func New(dir string, levels int) *Store {
	return &Store{
		dir:      dir,
		entryDir: filepath.Join(dir, "entries"),
		bodyDir:  filepath.Join(dir, "bodies"),
		levels:   util.Clamp(levels, 0, 20),
	}
}

// Get implements cache.Cache. A corrupt entry file is deleted and reported as
// a miss; a missing or wrong-sized body file is a miss without touching the
// entry.
func (s *Store) Get(request model.Request) (*model.Entry, bool) {
	path := filepath.Join(s.entryDir, s.keyPath(request.URI))
	log.Debugf("attempting to retrieve cache entry at path: %s", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(raw, &entry); err != nil || !entry.valid() {
		// Fault boundary: a corrupt entry could result from a previous bad run
		// or user tampering. Removing it here lets the caller retry the
		// request cleanly.
		log.Warnf("removing corrupt cache entry: %s", path)
		_ = s.Delete(request)
		return nil, false
	}

	bodyPath := entry.Response.Body
	if !filepath.IsAbs(bodyPath) {
		bodyPath = filepath.Join(s.bodyDir, bodyPath)
	}

	info, err := os.Stat(bodyPath)
	if err != nil {
		log.Warnf("cache entry without a body file: %s", bodyPath)
		return nil, false
	}
	if entry.Response.Size == sizeUnknown || info.Size() != entry.Response.Size {
		log.Warnf("cache body is %d bytes, expected %d: %s", info.Size(), entry.Response.Size, bodyPath)
		return nil, false
	}

	body, err := os.Open(bodyPath)
	if err != nil {
		return nil, false
	}

	return &model.Entry{
		Request: entry.Request,
		Response: model.Response{
			Status:  entry.Response.Status,
			Reason:  entry.Response.Reason,
			Headers: entry.Response.Headers,
			Body:    body,
		},
	}, true
}

// Add implements cache.Cache. The returned entry's body tees into the body
// file as the caller reads; only once the stream is fully drained is the
// entry marked complete and servable. Existing entries are never overwritten.
func (s *Store) Add(request model.Request, response model.Response) (*model.Entry, error) {
	rel := s.keyPath(request.URI)
	entryPath := filepath.Join(s.entryDir, rel)
	bodyPath := filepath.Join(s.bodyDir, rel)

	if err := os.MkdirAll(filepath.Dir(bodyPath), 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create body directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create entry directory: %w", err)
	}

	// O_EXCL: refuse to overwrite an existing response body.
	bodyFile, err := os.OpenFile(bodyPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:mnd
	if err != nil {
		return nil, fmt.Errorf("refusing to overwrite response body %s: %w", bodyPath, err)
	}

	entry := diskEntry{
		Request: request,
		Response: diskResponse{
			Status:  response.Status,
			Reason:  response.Reason,
			Headers: response.Headers,
			Body:    rel,
			Size:    sizeUnknown,
		},
	}

	if _, err := os.Stat(entryPath); err == nil {
		bodyFile.Close()
		_ = os.Remove(bodyPath)
		return nil, fmt.Errorf("refusing to overwrite cache entry %s", entryPath)
	}
	if err := s.writeEntry(entryPath, entry); err != nil {
		bodyFile.Close()
		_ = os.Remove(bodyPath)
		return nil, err
	}

	// The consumer's reads populate the body file; when it has been fully
	// drained, the entry is rewritten with the final size and becomes
	// servable.
	counter := &countingWriter{w: bodyFile}
	body := tee.New(response.Body, counter, func() {
		entry.Response.Size = counter.n
		if err := s.writeEntry(entryPath, entry); err != nil {
			log.WithError(err).Warnf("failed to finalize cache entry %s", entryPath)
		}
	})

	return &model.Entry{
		Request: request,
		Response: model.Response{
			Status:  response.Status,
			Reason:  response.Reason,
			Headers: response.Headers,
			Body:    body,
		},
	}, nil
}

// Delete implements cache.Cache. A path that is already gone is not an error;
// tolerating it avoids an exists/delete race.
func (s *Store) Delete(request model.Request) error {
	rel := s.keyPath(request.URI)

	for _, path := range []string{
		filepath.Join(s.entryDir, rel),
		filepath.Join(s.bodyDir, rel),
	} {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				log.Debugf("unable to unlink: %s", path)
				continue
			}
			return fmt.Errorf("failed to delete cache file %s: %w", path, err)
		}
	}

	return nil
}

// Close implements cache.Cache. The store holds no long-lived resources.
func (s *Store) Close() error {
	return nil
}

// Purge removes entry and body files older than maxAge. maxAge <= 0 is a
// no-op.
func (s *Store) Purge(maxAge time.Duration) error {
	if maxAge <= 0 {
		log.Debug("cache purge disabled")
		return nil
	}

	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}

	return nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// EntryDir returns the directory holding entry metadata files.
func (s *Store) EntryDir() string {
	return s.entryDir
}

// keyPath hashes uri with SHA-256 and splits the hex digest into levels
// single-character directories followed by the remainder as the filename.
func (s *Store) keyPath(uri string) string {
	hashed := hashURI(uri)
	parts := make([]string, 0, s.levels+1)
	for _, c := range hashed[:s.levels] {
		parts = append(parts, string(c))
	}
	parts = append(parts, hashed[s.levels:])
	return filepath.Join(parts...)
}

// hashURI returns the hex SHA-256 digest of uri.
func hashURI(uri string) string {
	h := sha256.Sum256([]byte(uri))
	return hex.EncodeToString(h[:])
}

func (s *Store) writeEntry(path string, entry diskEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize cache entry: %w", err)
	}
	if err := os.WriteFile(path, raw, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// valid reports whether a deserialized entry carries the fields a well-formed
// add always writes.
func (e *diskEntry) valid() bool {
	return e.Request.Method != "" && e.Request.URI != "" &&
		e.Response.Status != 0 && e.Response.Body != ""
}

type countingWriter struct {
	w *os.File
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func (c *countingWriter) Close() error {
	return c.w.Close()
}
