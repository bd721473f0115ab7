// Package corpus locates and loads compiled plays. The corpus convention
// names each play by a short infix ("responsion_ach_compiled.xml" for the
// Acharnians); loading turns the compiled markup into core/verse values,
// from a plain directory or from a tar.gz/tar.xz archive through the same
// interface.
package corpus

import (
	"regexp"

	"github.com/strophic/responsion/core/errors"
)

// Infixes is the canonical play order: Acharnians, Knights, Clouds, Wasps,
// Peace, Birds, Lysistrata, Thesmophoriazusae, Frogs, Ecclesiazusae,
// Wealth. Reports and corpus scans keep this order no matter how arguments
// arrive.
var Infixes = []string{"ach", "eq", "nu", "v", "pax", "av", "lys", "th", "ra", "ec", "pl"}

var labelRE = regexp.MustCompile(`^([a-z]+)`)

// IsInfix reports whether s names a play of the corpus.
func IsInfix(s string) bool {
	for _, inf := range Infixes {
		if s == inf {
			return true
		}
	}
	return false
}

// InfixOf extracts the play infix from a canticum label: the leading
// alphabetic run, so "v01" names the Wasps and "ach03" the Acharnians.
func InfixOf(label string) (string, error) {
	m := labelRE.FindStringSubmatch(label)
	if m == nil {
		return "", errors.NewValidation("label", "no play infix in "+label)
	}
	if !IsInfix(m[1]) {
		return "", errors.NewNotFound("play", m[1])
	}
	return m[1], nil
}

// CompiledFile returns the corpus file name of a compiled play.
func CompiledFile(infix string) string {
	return "responsion_" + infix + "_compiled.xml"
}

// ScanFile returns the corpus file name of a scanned (uncompiled) play.
func ScanFile(infix string) string {
	return "responsion_" + infix + "_scan.xml"
}

// Ordered filters and reorders infixes into the canonical play order,
// dropping duplicates.
func Ordered(infixes []string) []string {
	present := make(map[string]bool, len(infixes))
	for _, inf := range infixes {
		present[inf] = true
	}
	var out []string
	for _, inf := range Infixes {
		if present[inf] {
			out = append(out, inf)
		}
	}
	return out
}
