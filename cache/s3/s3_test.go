// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package s3

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwvanderlinde/cachedgo/model"
)

// fakeClient keeps objects in a map, enough S3 to drive the store.
type fakeClient struct {
	objects map[string][]byte
}

func newFakeClient() *fakeClient {
	return &fakeClient{objects: map[string][]byte{}}
}

func (f *fakeClient) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3v2.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: awsv2.Int64(int64(len(data))),
	}, nil
}

func (f *fakeClient) HeadObject(_ context.Context, in *s3v2.HeadObjectInput, _ ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error) {
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3v2.HeadObjectOutput{}, nil
}

func (f *fakeClient) PutObject(_ context.Context, in *s3v2.PutObjectInput, _ ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	return &s3v2.PutObjectOutput{}, nil
}

func (f *fakeClient) DeleteObject(_ context.Context, in *s3v2.DeleteObjectInput, _ ...func(*s3v2.Options)) (*s3v2.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3v2.DeleteObjectOutput{}, nil
}

func testRequest() model.Request {
	return model.Request{
		Method:  "GET",
		URI:     "http://google.ca",
		Headers: map[string]string{"Accept": "application/pdf"},
	}
}

func testStore(client Client) *Store {
	return NewWithClient(context.Background(), client, "cache-bucket", "cached", 5)
}

func TestGet_MissWhenNoEntryObject(t *testing.T) {
	store := testStore(newFakeClient())

	entry, ok := store.Get(testRequest())

	assert.False(t, ok)
	assert.Nil(t, entry)
}

func TestAdd_ThenGetRoundTrips(t *testing.T) {
	client := newFakeClient()
	store := testStore(client)

	response := model.Response{
		Status:  200,
		Reason:  "OK",
		Headers: map[string]string{"ETag": "gibberish"},
		Body:    io.NopCloser(strings.NewReader("some contents")),
	}

	entry, err := store.Add(testRequest(), response)
	require.NoError(t, err)

	// Drain; the upload happens at EOF.
	got, err := io.ReadAll(entry.Response.Body)
	require.NoError(t, err)
	require.NoError(t, entry.Response.Body.Close())
	assert.Equal(t, "some contents", string(got))

	cached, ok := store.Get(testRequest())
	require.True(t, ok)
	assert.Equal(t, 200, cached.Response.Status)
	assert.Equal(t, "OK", cached.Response.Reason)
	assert.Equal(t, map[string]string{"ETag": "gibberish"}, cached.Response.Headers)

	body, err := io.ReadAll(cached.Response.Body)
	require.NoError(t, err)
	require.NoError(t, cached.Response.Body.Close())
	assert.Equal(t, "some contents", string(body))
}

func TestAdd_UndrainedBodyIsNotUploaded(t *testing.T) {
	client := newFakeClient()
	store := testStore(client)

	response := model.Response{
		Status:  200,
		Reason:  "OK",
		Headers: map[string]string{},
		Body:    io.NopCloser(strings.NewReader("never read to completion")),
	}

	entry, err := store.Add(testRequest(), response)
	require.NoError(t, err)

	buf := make([]byte, 5)
	_, err = entry.Response.Body.Read(buf)
	require.NoError(t, err)
	require.NoError(t, entry.Response.Body.Close())

	assert.Empty(t, client.objects, "nothing may be uploaded for a partial read")
	_, ok := store.Get(testRequest())
	assert.False(t, ok)
}

func TestAdd_RefusesToOverwrite(t *testing.T) {
	client := newFakeClient()
	store := testStore(client)

	first, err := store.Add(testRequest(), model.Response{
		Status: 200, Reason: "OK", Headers: map[string]string{},
		Body: io.NopCloser(strings.NewReader("first")),
	})
	require.NoError(t, err)
	_, err = io.ReadAll(first.Response.Body)
	require.NoError(t, err)
	require.NoError(t, first.Response.Body.Close())

	_, err = store.Add(testRequest(), model.Response{
		Status: 200, Reason: "OK", Headers: map[string]string{},
		Body: io.NopCloser(strings.NewReader("second")),
	})
	assert.Error(t, err)
}

func TestGet_CorruptEntryIsDeletedAndMisses(t *testing.T) {
	client := newFakeClient()
	store := testStore(client)

	key := store.entryKey("http://google.ca")
	client.objects[key] = []byte("{this is not json")

	_, ok := store.Get(testRequest())

	assert.False(t, ok)
	_, exists := client.objects[key]
	assert.False(t, exists, "the corrupt entry should have been removed")
}

func TestDelete_RemovesEntryAndBody(t *testing.T) {
	client := newFakeClient()
	store := testStore(client)

	entry, err := store.Add(testRequest(), model.Response{
		Status: 200, Reason: "OK", Headers: map[string]string{},
		Body: io.NopCloser(strings.NewReader("contents")),
	})
	require.NoError(t, err)
	_, err = io.ReadAll(entry.Response.Body)
	require.NoError(t, err)
	require.NoError(t, entry.Response.Body.Close())

	require.NoError(t, store.Delete(testRequest()))
	assert.Empty(t, client.objects)
}

func TestDelete_MissingKeysAreNotAnError(t *testing.T) {
	store := testStore(newFakeClient())
	assert.NoError(t, store.Delete(testRequest()))
}
