// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It opens the local cache, signs in against the remote API, and runs the
// terminal viewer next to the background workers (periodic refresh and the
// analytics drain) for a single process lifecycle.
package client
