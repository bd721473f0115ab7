// Package responsion implements accentual correspondence matching between
// responding lines: per-category accent matches (acute, grave, circumflex),
// the barys/oxys classification, and their aggregation over strophes,
// cantica and whole plays.
//
// All matching is positional. Lines are first reduced to comparison units,
// where a resolved pair of lights occupies one unit, and units at the same
// ordinal are compared across every line of the responding tuple at once.
// Callers must establish metrical responsion before asking for accent
// matches; the matching functions return a NotRespondingError otherwise.
package responsion

import (
	"github.com/strophic/responsion/core/verse"
)

// Unit is one comparison slot of a line: a Single syllable, or a Double
// holding the two lights of a resolved heavy.
type Unit interface {
	// Ordinal is the 1-based position of the unit within its line.
	Ordinal() int
	unit()
}

// Single is a unit wrapping one syllable, identified by its index in the
// line's raw syllable order.
type Single struct {
	Ord int
	Idx int
}

func (u Single) Ordinal() int { return u.Ord }
func (Single) unit()          {}

// Double is a unit wrapping a resolved pair. First and Second index the two
// lights in the line's raw syllable order; Second is the syllable compared
// during barys/oxys classification, with First as its preceding syllable.
type Double struct {
	Ord    int
	First  int
	Second int
}

func (u Double) Ordinal() int { return u.Ord }
func (Double) unit()          {}

// BuildUnits converts a line into its comparison units. Two consecutive
// syllables marked resolution merge into one Double; everything else stays
// a Single. Ordinals count from 1.
func BuildUnits(l *verse.Line) []Unit {
	units := make([]Unit, 0, len(l.Sylls))
	ord := 1
	for i := 0; i < len(l.Sylls); i++ {
		if l.Sylls[i].Resolution && i+1 < len(l.Sylls) && l.Sylls[i+1].Resolution {
			units = append(units, Double{Ord: ord, First: i, Second: i + 1})
			i++
		} else {
			units = append(units, Single{Ord: ord, Idx: i})
		}
		ord++
	}
	return units
}
