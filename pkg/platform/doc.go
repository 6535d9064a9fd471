// SPDX-License-Identifier: MPL-2.0

// Package platform models deployment targets declared by a package manifest:
// an operating-system family and the minimum version a binary supports.
//
// Versions are dotted numerics (MAJOR[.MINOR[.PATCH]]) and compare
// numerically, so "13", "13.0" and "13.0.0" are the same floor.
package platform
