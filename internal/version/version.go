/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package version provides build information.
package version

import (
	"fmt"
	"runtime"
)

// Version of OnRadio. Set at build time via ldflags:
//
//	-X github.com/friendsincode/onradio/internal/version.Version=X.Y.Z
var Version = "0.1.0"

// Commit is the git revision the binary was built from.
var Commit = "unknown"

// Info is reported by /healthz and `onradio version`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{Version: Version, Commit: Commit, GoVersion: runtime.Version()}
}

func (i Info) String() string {
	return fmt.Sprintf("onradio %s (%s, %s)", i.Version, i.Commit, i.GoVersion)
}
