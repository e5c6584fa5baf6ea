// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

// Package s3 implements the response cache on top of an S3 bucket, using the
// same entries/ + bodies/ key layout as the disk store. Bodies are spooled to
// a temp file while the consumer reads and uploaded once the stream has been
// fully drained, so an interrupted transfer never leaves a servable entry
// behind.
package s3

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	awsx "github.com/kwvanderlinde/cachedgo/internal/aws"
	"github.com/kwvanderlinde/cachedgo/model"
	"github.com/kwvanderlinde/cachedgo/internal/tee"
	"github.com/kwvanderlinde/cachedgo/internal/util"
)

// Client is the slice of the S3 API the store needs.
type Client interface {
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3v2.HeadObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3v2.DeleteObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteObjectOutput, error)
}

// Store is a Cache backed by an S3 bucket.
type Store struct {
	ctx    context.Context
	client Client
	bucket string
	prefix string
	levels int
}

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

// Option adjusts how the AWS config is loaded.
type Option = awsx.Option

// WithProfile selects a named profile from the shared AWS config.
func WithProfile(profile string) Option { return awsx.WithProfile(profile) }

// WithRegion overrides the region from the config chain.
func WithRegion(region string) Option { return awsx.WithRegion(region) }

// New creates an S3-backed cache under bucket/prefix. AWS config is loaded
// from the usual chain; opts can override profile and region.
func New(ctx context.Context, bucket, prefix string, levels int, opts ...Option) (*Store, error) {
	cfg, err := awsx.LoadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewWithClient(ctx, awsx.NewS3(cfg), bucket, prefix, levels), nil
}

// NewWithClient creates a store around an existing client.
func NewWithClient(ctx context.Context, client Client, bucket, prefix string, levels int) *Store {
	return &Store{
		ctx:    ctx,
		client: client,
		bucket: bucket,
		prefix: prefix,
		levels: util.Clamp(levels, 0, 20),
	}
}

// Get implements cache.Cache. The returned body streams straight from S3.
func (s *Store) Get(request model.Request) (*model.Entry, bool) {
	key := s.entryKey(request.URI)
	log.Debugf("attempting to retrieve cache entry at key: %s", key)

	obj, err := s.client.GetObject(s.ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		if !isNotFound(err) {
			log.WithError(err).Warnf("failed to read cache entry %s", key)
		}
		return nil, false
	}
	raw, err := io.ReadAll(obj.Body)
	obj.Body.Close()
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(raw, &entry); err != nil || !entry.valid() {
		// Same fault boundary as the disk store: junk entries get removed so
		// the caller can retry the request cleanly.
		log.Warnf("removing corrupt cache entry: %s", key)
		_ = s.Delete(request)
		return nil, false
	}

	body, err := s.client.GetObject(s.ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(entry.Response.Body),
	})
	if err != nil {
		log.Warnf("cache entry without a body object: %s", entry.Response.Body)
		return nil, false
	}
	if body.ContentLength != nil && *body.ContentLength != entry.Response.Size {
		log.Warnf("cache body is %d bytes, expected %d: %s", *body.ContentLength, entry.Response.Size, entry.Response.Body)
		body.Body.Close()
		return nil, false
	}

	return &model.Entry{
		Request: entry.Request,
		Response: model.Response{
			Status:  entry.Response.Status,
			Reason:  entry.Response.Reason,
			Headers: entry.Response.Headers,
			Body:    body.Body,
		},
	}, true
}

// Add implements cache.Cache. The body is spooled to a local temp file as the
// caller reads; once drained, the body object and then the entry object are
// uploaded. The entry goes last so a partial transfer is never servable.
func (s *Store) Add(request model.Request, response model.Response) (*model.Entry, error) {
	entryKey := s.entryKey(request.URI)
	bodyKey := s.bodyKey(request.URI)

	if _, err := s.client.HeadObject(s.ctx, &s3v2.HeadObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(entryKey),
	}); err == nil {
		return nil, fmt.Errorf("refusing to overwrite cache entry %s", entryKey)
	}

	spool, err := os.CreateTemp("", "cached-s3-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}

	entry := diskEntry{
		Request: request,
		Response: diskResponse{
			Status:  response.Status,
			Reason:  response.Reason,
			Headers: response.Headers,
			Body:    bodyKey,
		},
	}

	body := tee.New(response.Body, &spoolFile{f: spool}, func() {
		if err := s.upload(entry, entryKey, spool); err != nil {
			log.WithError(err).Warnf("failed to upload cache entry %s", entryKey)
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

// Delete implements cache.Cache. S3 deletes of absent keys succeed, which
// conveniently sidesteps the exists/delete race.
func (s *Store) Delete(request model.Request) error {
	for _, key := range []string{s.entryKey(request.URI), s.bodyKey(request.URI)} {
		if _, err := s.client.DeleteObject(s.ctx, &s3v2.DeleteObjectInput{
			Bucket: awsv2.String(s.bucket),
			Key:    awsv2.String(key),
		}); err != nil {
			return fmt.Errorf("failed to delete cache object %s: %w", key, err)
		}
	}
	return nil
}

// Close implements cache.Cache.
func (s *Store) Close() error {
	return nil
}

// spoolFile mirrors the body into a temp file and cleans it up when the
// consumer closes, whether or not the upload ever fired.
type spoolFile struct {
	f *os.File
}

func (s *spoolFile) Write(p []byte) (int, error) {
	return s.f.Write(p)
}

func (s *spoolFile) Close() error {
	err := s.f.Close()
	_ = os.Remove(s.f.Name())
	return err
}

// upload ships the drained spool as the body object, then the finalized
// entry. The entry goes last so a partial transfer is never servable. The
// spool stays open; the consumer's Close cleans it up.
func (s *Store) upload(entry diskEntry, entryKey string, spool *os.File) error {
	info, err := spool.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat spool file: %w", err)
	}
	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind spool file: %w", err)
	}

	size := info.Size()
	if _, err := s.client.PutObject(s.ctx, &s3v2.PutObjectInput{
		Bucket:        awsv2.String(s.bucket),
		Key:           awsv2.String(entry.Response.Body),
		Body:          spool,
		ContentLength: awsv2.Int64(size),
	}); err != nil {
		return fmt.Errorf("failed to upload body object: %w", err)
	}

	entry.Response.Size = size
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize cache entry: %w", err)
	}
	if _, err := s.client.PutObject(s.ctx, &s3v2.PutObjectInput{
		Bucket:        awsv2.String(s.bucket),
		Key:           awsv2.String(entryKey),
		Body:          bytes.NewReader(raw),
		ContentLength: awsv2.Int64(int64(len(raw))),
	}); err != nil {
		return fmt.Errorf("failed to upload entry object: %w", err)
	}

	return nil
}

func (s *Store) entryKey(uri string) string {
	return path.Join(s.prefix, "entries", s.keyPath(uri))
}

func (s *Store) bodyKey(uri string) string {
	return path.Join(s.prefix, "bodies", s.keyPath(uri))
}

// keyPath mirrors the disk store's fanout, with / separators regardless of
// platform.
func (s *Store) keyPath(uri string) string {
	hashed := hashURI(uri)
	parts := make([]string, 0, s.levels+1)
	for _, c := range hashed[:s.levels] {
		parts = append(parts, string(c))
	}
	parts = append(parts, hashed[s.levels:])
	return path.Join(parts...)
}

func hashURI(uri string) string {
	h := sha256.Sum256([]byte(uri))
	return hex.EncodeToString(h[:])
}

func (e *diskEntry) valid() bool {
	return e.Request.Method != "" && e.Request.URI != "" &&
		e.Response.Status != 0 && e.Response.Body != ""
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
