// SPDX-License-Identifier: Apache-2.0
//
// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package version reports build identity for the mathlang binary,
// pre-filled from the Go toolchain's embedded VCS metadata.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"text/tabwriter"
)

// Info holds what `mathlang version` prints.
type Info struct {
	Name        string
	Description string
	GitVersion  string
	GitCommit   string
	TreeState   string
	BuildDate   string
}

// Option configures an Info.
type Option func(*Info)

// WithAppDetails sets the application name and description.
func WithAppDetails(name, description string) Option {
	return func(i *Info) {
		i.Name = name
		i.Description = description
	}
}

// GetVersionInfo reads debug.BuildInfo (commit, build date, tree state,
// module version) and applies the given options on top. Options win over
// the pre-filled values.
func GetVersionInfo(opts ...Option) Info {
	info := Info{}

	if bi, _ := debug.ReadBuildInfo(); bi != nil {
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.GitCommit = setting.Value
			case "vcs.time":
				info.BuildDate = setting.Value
			case "vcs.modified":
				if setting.Value == "true" {
					info.TreeState = "dirty"
				} else {
					info.TreeState = "clean"
				}
			}
		}
		// development builds report "(devel)", which isn't worth printing
		if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.GitVersion = bi.Main.Version
		}
	}

	for _, opt := range opts {
		opt(&info)
	}

	return info
}

func (i Info) String() string {
	var b strings.Builder

	if i.Name != "" {
		if i.GitVersion != "" {
			fmt.Fprintf(&b, "%s v%s\n", i.Name, i.GitVersion)
		} else {
			fmt.Fprintf(&b, "%s\n", i.Name)
		}
	}
	if i.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", i.Description)
	}
	b.WriteString("\n")

	w := tabwriter.NewWriter(&b, 0, 0, 1, ' ', 0)
	if i.GitCommit != "" {
		fmt.Fprintf(w, "Git Commit:\t%s\n", i.GitCommit)
	}
	if i.TreeState != "" {
		fmt.Fprintf(w, "Git Tree:\t%s\n", i.TreeState)
	}
	if i.BuildDate != "" {
		fmt.Fprintf(w, "Build Date:\t%s\n", i.BuildDate)
	}
	w.Flush()

	return b.String()
}
