/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package version exposes the application version for logs, crash reports
// and the CLI. Version is overridable at build time via
// -ldflags "-X cardcomposer/internal/version.Version=v1.2.3".
package version

import "fmt"

// Version is the semantic version of the build.
var Version = "0.1.0-dev"

// Commit is the VCS revision, if injected at build time.
var Commit = ""

// String renders the version with the optional commit suffix.
func String() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
