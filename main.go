// SPDX-License-Identifier: MPL-2.0

// Command pkgplan resolves binary-framework package manifests into
// deterministic build/link plans.
package main

import cmd "github.com/pkgplan/pkgplan/cmd/pkgplan"

func main() {
	cmd.Execute()
}
