package responsion

import (
	"strings"

	"github.com/strophic/responsion/core/accent"
	"github.com/strophic/responsion/core/errors"
	"github.com/strophic/responsion/core/metre"
	"github.com/strophic/responsion/core/verse"
)

// Entry locates one syllable of a match: the line it sits on, the 1-based
// unit ordinal, and the text shown in listings. Text keeps the source
// spacing; embedded spaces mark word boundaries inside a syllable.
type Entry struct {
	Line    string `json:"line"`
	Ordinal int    `json:"ordinal"`
	Text    string `json:"text"`
}

// Match is one correspondence across every line of a responding tuple, in
// tuple order, one entry per line.
type Match []Entry

// Matches collects the match records of one comparison, grouped by accent
// category.
type Matches struct {
	Acute      []Match `json:"acute"`
	Grave      []Match `json:"grave"`
	Circumflex []Match `json:"circumflex"`
}

func (m *Matches) add(c accent.Category, rec Match) {
	switch c {
	case accent.Acute:
		m.Acute = append(m.Acute, rec)
	case accent.Grave:
		m.Grave = append(m.Grave, rec)
	case accent.Circumflex:
		m.Circumflex = append(m.Circumflex, rec)
	}
}

// ByCategory returns the records for one category.
func (m *Matches) ByCategory(c accent.Category) []Match {
	switch c {
	case accent.Acute:
		return m.Acute
	case accent.Grave:
		return m.Grave
	case accent.Circumflex:
		return m.Circumflex
	}
	return nil
}

// Entries returns the number of syllables participating in matches of one
// category, one per record entry. This is the quantity compared against the
// total number of accent occurrences in the corpus.
func (m *Matches) Entries(c accent.Category) int {
	n := 0
	for _, rec := range m.ByCategory(c) {
		n += len(rec)
	}
	return n
}

// TotalEntries sums Entries over all three categories.
func (m *Matches) TotalEntries() int {
	n := 0
	for _, c := range accent.Categories() {
		n += m.Entries(c)
	}
	return n
}

// Extend appends every record of o to m.
func (m *Matches) Extend(o *Matches) {
	if o == nil {
		return
	}
	m.Acute = append(m.Acute, o.Acute...)
	m.Grave = append(m.Grave, o.Grave...)
	m.Circumflex = append(m.Circumflex, o.Circumflex...)
}

func lineRefs(lines []*verse.Line) string {
	ns := make([]string, len(lines))
	for i, l := range lines {
		ns[i] = l.N
	}
	return "lines " + strings.Join(ns, ", ")
}

// AlignUnits gates a tuple of lines for positional comparison and returns
// one unit list per line. The lines must respond metrically and reduce to
// the same number of units.
func AlignUnits(lines []*verse.Line) ([][]Unit, error) {
	if len(lines) < 2 {
		return nil, errors.NewValidation("lines", "comparison needs at least two lines")
	}
	if !metre.RespondsAll(lines) {
		return nil, errors.NewNotResponding("", lineRefs(lines))
	}
	unitLists := make([][]Unit, len(lines))
	for i, l := range lines {
		unitLists[i] = BuildUnits(l)
		if len(unitLists[i]) != len(unitLists[0]) {
			return nil, errors.NewMismatch("", "unit count", len(unitLists[0]), len(unitLists[i]))
		}
	}
	return unitLists, nil
}

// MatchLines runs accent matching across two or more metrically responding
// lines. Units at the same ordinal are compared across all lines at once:
//
//   - all Single: for each accent category, a match is recorded when every
//     syllable at the position carries the category;
//   - all Double: acute only, with the two sub-positions scored
//     independently; a match requires the acute on the same sub-position in
//     every pair;
//   - mixed: acute only; every Single must be a heavy carrying the acute
//     and every Double must carry the acute on its second light.
//
// Returns a NotRespondingError when the lines do not respond metrically and
// a MismatchError when their unit counts diverge.
func MatchLines(lines ...*verse.Line) (*Matches, error) {
	unitLists, err := AlignUnits(lines)
	if err != nil {
		return nil, err
	}
	m := &Matches{}
	units := make([]Unit, len(lines))
	for pos := range unitLists[0] {
		for i := range unitLists {
			units[i] = unitLists[i][pos]
		}
		matchPosition(lines, units, m)
	}
	return m, nil
}

func matchPosition(lines []*verse.Line, units []Unit, m *Matches) {
	singles := 0
	for _, u := range units {
		if _, ok := u.(Single); ok {
			singles++
		}
	}
	switch singles {
	case len(units):
		matchSingles(lines, units, m)
	case 0:
		matchDoubles(lines, units, m)
	default:
		matchMixed(lines, units, m)
	}
}

func matchSingles(lines []*verse.Line, units []Unit, m *Matches) {
	for _, cat := range accent.Categories() {
		rec := make(Match, 0, len(units))
		for i, u := range units {
			s := &lines[i].Sylls[u.(Single).Idx]
			if !s.HasAccent(cat) {
				rec = nil
				break
			}
			rec = append(rec, Entry{Line: lines[i].N, Ordinal: u.Ordinal(), Text: s.Text})
		}
		if rec != nil {
			m.add(cat, rec)
		}
	}
}

// matchDoubles assumes at most one sub-syllable of a resolved pair carries
// an accent, so the two sub-positions can be scored independently.
func matchDoubles(lines []*verse.Line, units []Unit, m *Matches) {
	first := make(Match, 0, len(units))
	second := make(Match, 0, len(units))
	for i, u := range units {
		d := u.(Double)
		s1 := &lines[i].Sylls[d.First]
		s2 := &lines[i].Sylls[d.Second]
		if first != nil && s1.HasAccent(accent.Acute) {
			first = append(first, Entry{Line: lines[i].N, Ordinal: d.Ord, Text: s1.Text})
		} else {
			first = nil
		}
		if second != nil && s2.HasAccent(accent.Acute) {
			second = append(second, Entry{Line: lines[i].N, Ordinal: d.Ord, Text: s2.Text})
		} else {
			second = nil
		}
	}
	if first != nil {
		m.add(accent.Acute, first)
	}
	if second != nil {
		m.add(accent.Acute, second)
	}
}

func matchMixed(lines []*verse.Line, units []Unit, m *Matches) {
	rec := make(Match, 0, len(units))
	for i, u := range units {
		l := lines[i]
		switch u := u.(type) {
		case Single:
			s := &l.Sylls[u.Idx]
			if s.Weight != verse.Heavy || !s.HasAccent(accent.Acute) {
				return
			}
			rec = append(rec, Entry{Line: l.N, Ordinal: u.Ord, Text: s.Text})
		case Double:
			s2 := &l.Sylls[u.Second]
			if !s2.HasAccent(accent.Acute) {
				return
			}
			rec = append(rec, Entry{Line: l.N, Ordinal: u.Ord, Text: s2.Text})
		}
	}
	m.add(accent.Acute, rec)
}
