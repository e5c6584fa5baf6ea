// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

// Package aws centralizes AWS SDK v2 config loading and S3 client
// construction so the rest of the project never touches the SDK's setup
// surface directly.
package aws
