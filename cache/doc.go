// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

// Package cache defines the response cache abstraction and an HTTP-aware
// decorator that layers protocol rules (cacheable methods and statuses, Vary
// matching) over any concrete store.
package cache
