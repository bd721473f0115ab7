// Package metre reduces scanned lines to canonical metrical sequences and
// decides whether lines respond.
//
// A canonical sequence abstracts away surface variation: a resolved pair of
// lights collapses back to the heavy position it realizes, a contracted heavy
// expands to the two lights it stands for, and a line-final brevis in longo
// counts heavy. Anceps positions stay anceps and match either weight during
// comparison.
package metre

import (
	"strings"

	"github.com/strophic/responsion/core/verse"
)

// Value is one position in a canonical metrical sequence.
type Value string

const (
	Heavy  Value = "heavy"
	Light  Value = "light"
	Anceps Value = "anceps"
)

// Values returns all canonical values.
func Values() []Value {
	return []Value{Heavy, Light, Anceps}
}

// IsValid returns true if the value is recognized.
func (v Value) IsValid() bool {
	switch v {
	case Heavy, Light, Anceps:
		return true
	}
	return false
}

// String returns the string representation of the value.
func (v Value) String() string {
	return string(v)
}

// Siglum returns the conventional one-character notation for the value:
// "-" for heavy, "u" for light, "x" for anceps.
func (v Value) Siglum() string {
	switch v {
	case Heavy:
		return "-"
	case Light:
		return "u"
	case Anceps:
		return "x"
	}
	return "?"
}

// Canonical reduces a line to its canonical metrical sequence. The rules
// apply in order at each syllable:
//
//  1. a resolved pair (this syllable and the next both marked resolution)
//     collapses to one heavy and consumes both syllables;
//  2. an anceps syllable stays anceps, whatever its weight;
//  3. a contracted heavy expands to the two lights it stands for;
//  4. a brevis in longo counts heavy;
//  5. otherwise the syllable keeps its own weight, light when unset.
func Canonical(l *verse.Line) []Value {
	vals := make([]Value, 0, len(l.Sylls))
	for i := 0; i < len(l.Sylls); i++ {
		s := l.Sylls[i]
		switch {
		case s.Resolution && i+1 < len(l.Sylls) && l.Sylls[i+1].Resolution:
			vals = append(vals, Heavy)
			i++
		case s.Anceps:
			vals = append(vals, Anceps)
		case s.Contraction && s.Weight == verse.Heavy:
			vals = append(vals, Light, Light)
		case s.BrevisInLongo:
			vals = append(vals, Heavy)
		case s.Weight == verse.Heavy:
			vals = append(vals, Heavy)
		default:
			vals = append(vals, Light)
		}
	}
	return vals
}

// Match returns true if two canonical values correspond. Anceps matches
// either weight.
func Match(a, b Value) bool {
	if a == Anceps || b == Anceps {
		return true
	}
	return a == b
}

// Responds returns true if two lines metrically respond: their canonical
// sequences have the same length and every position matches.
func Responds(a, b *verse.Line) bool {
	ca := Canonical(a)
	cb := Canonical(b)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if !Match(ca[i], cb[i]) {
			return false
		}
	}
	return true
}

// RespondsAll returns true if every pair of lines metrically responds.
// Since anceps matches either weight, this holds exactly when all canonical
// sequences have the same length and, at each position, every non-anceps
// value agrees.
func RespondsAll(lines []*verse.Line) bool {
	if len(lines) == 0 {
		return true
	}
	canons := make([][]Value, len(lines))
	for i, l := range lines {
		canons[i] = Canonical(l)
		if len(canons[i]) != len(canons[0]) {
			return false
		}
	}
	for pos := range canons[0] {
		var fixed Value
		for _, c := range canons {
			v := c[pos]
			if v == Anceps {
				continue
			}
			if fixed == "" {
				fixed = v
			} else if v != fixed {
				return false
			}
		}
	}
	return true
}

// Pattern renders a canonical sequence as space-separated sigla,
// e.g. "- u u x -".
func Pattern(vals []Value) string {
	sigla := make([]string, len(vals))
	for i, v := range vals {
		sigla[i] = v.Siglum()
	}
	return strings.Join(sigla, " ")
}
