// SPDX-License-Identifier: MPL-2.0

package platform

// Host OS names for runtime.GOOS comparisons. These describe the machine
// running pkgplan, not a deployment Family.
const (
	Windows = "windows"
	Darwin  = "darwin"
)
