// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

// Package tee provides a reader that copies everything it reads to a writer,
// so a response body can populate a cache file lazily as the consumer drains
// it.
package tee

import "io"

// Reader reads from an underlying reader while writing every chunk to the
// writer. When the reader is fully drained, the onComplete callback fires
// exactly once. A consumer that closes before EOF leaves the written copy
// short, which downstream readers must detect.
type Reader struct {
	reader     io.ReadCloser
	writer     io.WriteCloser
	onComplete func()
	completed  bool
}

// New wraps reader so that everything read is mirrored to writer. onComplete
// may be nil.
func New(reader io.ReadCloser, writer io.WriteCloser, onComplete func()) *Reader {
	return &Reader{reader: reader, writer: writer, onComplete: onComplete}
}

// Read implements io.Reader. The chunk is written to the mirror before it is
// returned; a short mirror write surfaces as a read error so the caller never
// sees bytes the copy is missing.
func (t *Reader) Read(p []byte) (int, error) {
	n, err := t.reader.Read(p)
	if n > 0 {
		if _, werr := t.writer.Write(p[:n]); werr != nil {
			return n, werr
		}
	}
	if err == io.EOF {
		t.complete()
	}
	return n, err
}

// Close closes both ends. If the underlying reader was already drained the
// completion callback has fired; otherwise the mirror is left short.
func (t *Reader) Close() error {
	rerr := t.reader.Close()
	werr := t.writer.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}

func (t *Reader) complete() {
	if t.completed {
		return
	}
	t.completed = true
	if t.onComplete != nil {
		t.onComplete()
	}
}
