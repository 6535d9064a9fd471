// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that fail the test on error
// instead of returning it: writing fixture files, changing directory and
// unsetting environment variables for the duration of a test.
package testutil
