// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The issue catalog holds a Markdown guide per failure
// class (malformed manifest, dependency cycle, platform floor, ...) that the
// CLI renders with glamour in verbose mode.
package issue
