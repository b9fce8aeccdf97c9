// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

const notAvailable = "N/A"

// AppBuildInfo carries build metadata injected with -ldflags.
type AppBuildInfo struct {
	BuildVersion string `json:"version"`
	BuildDate    string `json:"date"`
	BuildCommit  string `json:"commit"`
}

// NewAppBuildInfo builds [AppBuildInfo], replacing empty values with "N/A".
func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		BuildVersion: orNotAvailable(buildVersion),
		BuildDate:    orNotAvailable(buildDate),
		BuildCommit:  orNotAvailable(buildCommit),
	}
}

func (a AppBuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s", a.BuildVersion, a.BuildDate, a.BuildCommit)
}

func orNotAvailable(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
