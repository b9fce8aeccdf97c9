// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errNoServersAreCreated  = errors.New("no servers are created")
	errServerAlreadyRunning = errors.New("server is already running")
)
