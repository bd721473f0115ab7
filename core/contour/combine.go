package contour

import (
	"github.com/strophic/responsion/core/errors"
	"github.com/strophic/responsion/core/responsion"
	"github.com/strophic/responsion/core/verse"
)

// Cell holds one strophe's contribution to a position: one contour for a
// single syllable, two for a resolved pair, plus the accent mark of the
// syllable (for a pair, the first accented sub-syllable's mark).
type Cell struct {
	Contours []Contour `json:"contours"`
	Mark     Mark      `json:"mark,omitempty"`
}

// Resolved reports whether the cell came from a resolved pair.
func (c Cell) Resolved() bool {
	return len(c.Contours) == 2
}

// direction reduces a contour to its bucket: Up, Down or Neutral.
func direction(c Contour) Contour {
	switch c {
	case Up, UpGrave:
		return Up
	case Down, DownAccent:
		return Down
	}
	return Neutral
}

// Effective reduces the cell to one contour. A single syllable keeps its
// contour. A resolved pair collapses by direction: two sub-syllables
// moving the same way keep that direction, a directional sub-syllable
// beats a neutral one, and opposed directions cancel to Neutral.
func (c Cell) Effective() Contour {
	if len(c.Contours) != 2 {
		return c.Contours[0]
	}
	a, b := direction(c.Contours[0]), direction(c.Contours[1])
	switch {
	case a == b:
		return a
	case a == Neutral:
		return b
	case b == Neutral:
		return a
	}
	return Neutral
}

// Position holds the cells of one metrical position, one per line of the
// responding tuple, in tuple order.
type Position []Cell

func (p Position) effectives() []Contour {
	cs := make([]Contour, len(p))
	for i, cell := range p {
		cs[i] = cell.Effective()
	}
	return cs
}

func (p Position) allMarked(m Mark) bool {
	for _, cell := range p {
		if cell.Mark != m {
			return false
		}
	}
	return true
}

func every(cs []Contour, allowed ...Contour) bool {
	for _, c := range cs {
		ok := false
		for _, a := range allowed {
			if c == a {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func contains(cs []Contour, want Contour) bool {
	for _, c := range cs {
		if c == want {
			return true
		}
	}
	return false
}

// Positions aligns the contours of two or more responding lines by
// metrical position. Returns a NotRespondingError when the lines do not
// respond metrically.
func Positions(lines ...*verse.Line) ([]Position, error) {
	unitLists, err := responsion.AlignUnits(lines)
	if err != nil {
		return nil, err
	}
	perLine := make([][]Contour, len(lines))
	for i, l := range lines {
		perLine[i] = Contours(l)
	}

	out := make([]Position, len(unitLists[0]))
	for pos := range unitLists[0] {
		cells := make(Position, len(lines))
		for i, l := range lines {
			switch u := unitLists[i][pos].(type) {
			case responsion.Single:
				cells[i] = Cell{
					Contours: []Contour{perLine[i][u.Idx]},
					Mark:     markOf(&l.Sylls[u.Idx]),
				}
			case responsion.Double:
				mark := markOf(&l.Sylls[u.First])
				if mark == MarkNone {
					mark = markOf(&l.Sylls[u.Second])
				}
				cells[i] = Cell{
					Contours: []Contour{perLine[i][u.First], perLine[i][u.Second]},
					Mark:     mark,
				}
			}
		}
		out[pos] = cells
	}
	return out, nil
}

// Combine merges the position's cells into one contour for the whole
// tuple. An all-circumflex position keeps its own pair of values; a main
// accent somewhere forces a fall unless another strophe rises, in which
// case only a repeated note fits; plain falls and rises combine the same
// way without the accent flag.
func Combine(pos Position) Contour {
	cs := pos.effectives()
	rises := contains(cs, Up) || contains(cs, UpGrave)
	switch {
	case pos.allMarked(MarkCircumflex):
		if contains(cs, DownAccent) {
			return CircDown
		}
		return CircFlat
	case contains(cs, DownAccent):
		switch {
		case every(cs, DownAccent):
			return DownAccent
		case rises:
			return RepeatAccent
		}
		return Down
	case contains(cs, Down):
		if rises {
			return Repeat
		}
		return Down
	case contains(cs, UpGrave):
		return UpGrave
	case contains(cs, Up):
		return Up
	}
	return Neutral
}

// Status grades how well a position's contours align across strophes.
type Status string

const (
	// StatusCircumflex marks an all-circumflex position.
	StatusCircumflex Status = "CIRC"
	// StatusM1: every strophe falls off its main accent.
	StatusM1 Status = "M1"
	// StatusM2: post-accentual fall alongside plain downward motion.
	StatusM2 Status = "M2"
	// StatusM3: every strophe rises.
	StatusM3 Status = "M3"
	// StatusM4: compatible through word breaks.
	StatusM4 Status = "M4"
	// StatusC1: a main-accent fall clashes with a rise.
	StatusC1 Status = "C1"
	// StatusC2: a plain rise clashes with a fall.
	StatusC2 Status = "C2"
	// StatusC3: a grave or proclitic rise clashes with a fall.
	StatusC3 Status = "C3"
)

func (s Status) String() string {
	return string(s)
}

// IsMatch reports whether the position aligns at full strength: every
// strophe falls off its main accent, or every strophe carries a
// circumflex.
func (s Status) IsMatch() bool {
	return s == StatusM1 || s == StatusCircumflex
}

// IsClash reports the strongest conflict: a main-accent fall against a
// rise.
func (s Status) IsClash() bool {
	return s == StatusC1
}

// MatchStatus grades the position. Match grades are checked strongest
// first, so a position that is all falls lands in M2 even without a main
// accent; conflicts sort by the strongest rising witness. A conflict
// without a main-accent fall or a plain rise can only carry a grave or
// proclitic, which is C3.
func MatchStatus(pos Position) Status {
	if pos.allMarked(MarkCircumflex) {
		return StatusCircumflex
	}
	cs := pos.effectives()
	switch {
	case every(cs, DownAccent):
		return StatusM1
	case every(cs, DownAccent, Down):
		return StatusM2
	case every(cs, Up, UpGrave):
		return StatusM3
	case every(cs, DownAccent, Down, Neutral):
		return StatusM4
	case every(cs, Up, UpGrave, Neutral):
		return StatusM4
	case contains(cs, DownAccent):
		return StatusC1
	case contains(cs, Up):
		return StatusC2
	}
	return StatusC3
}

// Compatibility scores the position as the largest internally consistent
// share: contours are bucketed as rising-like (Up, UpGrave, Neutral) or
// falling-like (Down, DownAccent, Neutral), with Neutral feeding both
// buckets, and the score is the larger bucket over the total contribution
// count. When every strophe resolves the position, each sub-syllable
// contributes on its own; otherwise resolved pairs contribute their
// collapsed contour.
func Compatibility(pos Position) float64 {
	allResolved := true
	for _, cell := range pos {
		if !cell.Resolved() {
			allResolved = false
			break
		}
	}

	up, down, total := 0, 0, 0
	bucket := func(c Contour) {
		total++
		switch direction(c) {
		case Up:
			up++
		case Down:
			down++
		default:
			up++
			down++
		}
	}
	for _, cell := range pos {
		if allResolved {
			for _, c := range cell.Contours {
				bucket(c)
			}
		} else {
			bucket(cell.Effective())
		}
	}
	if total == 0 {
		return 0
	}
	best := up
	if down > best {
		best = down
	}
	return float64(best) / float64(total)
}

// LineContours is the combined analysis of one responding line tuple.
type LineContours struct {
	Refs     []string  `json:"refs"`
	Combined []Contour `json:"combined"`
	Statuses []Status  `json:"statuses"`
	Ratios   []float64 `json:"ratios"`
}

// CanticumContours aggregates the contour comparison over a whole
// canticum: one LineContours per line position, plus position counts of
// full matches, forced repeats and clashes.
type CanticumContours struct {
	Responsion string         `json:"responsion"`
	Lines      []LineContours `json:"lines"`
	Positions  int            `json:"positions"`
	Matches    int            `json:"matches"`
	Repeats    int            `json:"repeats"`
	Clashes    int            `json:"clashes"`
}

// AnalyzeCanticum runs the contour comparison across all strophes of a
// canticum. Unlike accent matching, a structural failure here is returned
// rather than recovered: the caller asked for this canticum specifically.
func AnalyzeCanticum(c *verse.Canticum) (*CanticumContours, error) {
	if len(c.Strophes) < 2 {
		return nil, errors.NewValidation("strophes", "canticum "+c.Responsion+" needs at least two strophes")
	}
	n := len(c.Strophes[0].Lines)
	for _, st := range c.Strophes[1:] {
		if len(st.Lines) != n {
			return nil, errors.NewMismatch(c.Responsion, "line count", n, len(st.Lines))
		}
	}

	out := &CanticumContours{Responsion: c.Responsion}
	tuple := make([]*verse.Line, len(c.Strophes))
	for li := 0; li < n; li++ {
		refs := make([]string, len(c.Strophes))
		for si, st := range c.Strophes {
			tuple[si] = &st.Lines[li]
			refs[si] = st.Lines[li].N
		}
		positions, err := Positions(tuple...)
		if err != nil {
			return nil, err
		}

		lc := LineContours{Refs: refs}
		for _, pos := range positions {
			combined := Combine(pos)
			status := MatchStatus(pos)
			lc.Combined = append(lc.Combined, combined)
			lc.Statuses = append(lc.Statuses, status)
			lc.Ratios = append(lc.Ratios, Compatibility(pos))

			out.Positions++
			if status.IsMatch() {
				out.Matches++
			}
			if combined.IsRepeat() {
				out.Repeats++
			}
			if status.IsClash() {
				out.Clashes++
			}
		}
		out.Lines = append(out.Lines, lc)
	}
	return out, nil
}
