// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

// Package model defines the types exchanged through the caching interface.
// The types are as simple as possible so that they are convenient to both
// produce and consume.
package model

import "io"

// Request represents an arbitrary request, excluding the parts not used for
// caching. The body and the HTTP version do not affect caching, so we exclude
// them.
type Request struct {
	// Method is the HTTP method of the request. E.g., "GET".
	Method string `json:"method"`
	// URI is the id of the resource being requested.
	URI string `json:"uri"`
	// Headers are all the headers being sent with the request.
	Headers map[string]string `json:"headers"`
}

// Response represents an arbitrary response, without any bells and whistles.
// We deliberately do not reuse net/http's Response; we want a type that does
// what we need and nothing more, and converting between the two is trivial.
type Response struct {
	// Status is the status code of the response. E.g., 200 or 400.
	Status int `json:"status"`
	// Reason is the reason string relating to the status code. E.g., "OK".
	Reason string `json:"reason"`
	// Headers are all the headers sent with the response.
	Headers map[string]string `json:"headers"`
	// Body is a stream containing the response payload. It is never held in
	// memory by the caching layers; stores keep it on disk and hand back a
	// fresh reader on every lookup.
	Body io.ReadCloser `json:"-"`
}

// Entry is a cached request/response pair.
//
// An entry deliberately does not embed the response body bytes, since bodies
// can be arbitrarily large. Stores persist the body separately and record
// where it lives plus how many bytes it should contain. If the body is
// missing, or is not the expected size, that is likely the fault of an
// interrupted run (unless a user has been tampering); it is logged and
// treated as a cache miss.
type Entry struct {
	Request  Request  `json:"request"`
	Response Response `json:"response"`
}
