package responsion

import (
	"github.com/strophic/responsion/core/accent"
	"github.com/strophic/responsion/core/verse"
)

// BarysOxys collects barys and oxys match records. Entry texts carry
// phonetic context: the preceding syllable is prepended for an acute-driven
// barys entry, the following syllable appended for an oxys entry.
type BarysOxys struct {
	Barys []Match `json:"barys"`
	Oxys  []Match `json:"oxys"`
}

// BarysEntries returns the number of syllables participating in barys
// matches, one per record entry.
func (b *BarysOxys) BarysEntries() int {
	n := 0
	for _, rec := range b.Barys {
		n += len(rec)
	}
	return n
}

// OxysEntries returns the number of syllables participating in oxys
// matches, one per record entry.
func (b *BarysOxys) OxysEntries() int {
	n := 0
	for _, rec := range b.Oxys {
		n += len(rec)
	}
	return n
}

// Extend appends every record of o to b.
func (b *BarysOxys) Extend(o *BarysOxys) {
	if o == nil {
		return
	}
	b.Barys = append(b.Barys, o.Barys...)
	b.Oxys = append(b.Oxys, o.Oxys...)
}

// comparedIndex is the syllable a unit exposes to barys/oxys
// classification: the syllable itself for a Single, the second light for a
// Double (whose preceding syllable is then the first light).
func comparedIndex(u Unit) int {
	switch u := u.(type) {
	case Single:
		return u.Idx
	case Double:
		return u.Second
	}
	return -1
}

// heavyPrevAcute reports the non-circumflex barys condition: a heavy
// syllable whose preceding syllable, in raw order within its own line,
// carries an acute.
func heavyPrevAcute(s, prev *verse.Syllable) bool {
	return s.Weight == verse.Heavy && prev != nil && prev.HasAccent(accent.Acute)
}

// barysPair reports whether two syllables respond barys: both carry a
// circumflex, both are heavy with an acute on each one's preceding
// syllable, or one of each.
func barysPair(a, b, prevA, prevB *verse.Syllable) bool {
	circA := a.HasAccent(accent.Circumflex)
	circB := b.HasAccent(accent.Circumflex)
	fallA := heavyPrevAcute(a, prevA)
	fallB := heavyPrevAcute(b, prevB)
	switch {
	case circA && circB:
		return true
	case fallA && fallB:
		return true
	case circA && fallB, circB && fallA:
		return true
	}
	return false
}

// oxysSyll reports whether the syllable at index i qualifies for oxys: it
// carries an acute and is either the last syllable of its line or followed
// by a light.
func oxysSyll(l *verse.Line, i int) bool {
	if !l.Sylls[i].HasAccent(accent.Acute) {
		return false
	}
	next := l.Next(i)
	return next == nil || next.Weight == verse.Light
}

// barysText is the listing text for a barys entry: the syllable itself when
// it carries the circumflex, otherwise the preceding syllable prepended to
// show the acute that licenses the match.
func barysText(s, prev *verse.Syllable) string {
	if s.HasAccent(accent.Circumflex) || prev == nil {
		return s.Text
	}
	return prev.Text + s.Text
}

// oxysText is the listing text for an oxys entry: the following syllable is
// appended when there is one.
func oxysText(s, next *verse.Syllable) string {
	if next == nil {
		return s.Text
	}
	return s.Text + next.Text
}

// BarysOxysLines classifies barys and oxys correspondences across two or
// more metrically responding lines. The first line is the pivot: a unit
// responds barys when every member's compared syllable pairs barys with the
// pivot's (the pivot itself must qualify alone). Barys is checked first; a
// unit recorded as barys is not also tested for oxys. Oxys requires every
// member's compared syllable to qualify independently.
func BarysOxysLines(lines ...*verse.Line) (*BarysOxys, error) {
	unitLists, err := AlignUnits(lines)
	if err != nil {
		return nil, err
	}
	res := &BarysOxys{}
	for pos := range unitLists[0] {
		pivotIdx := comparedIndex(unitLists[0][pos])
		pivotSyll := &lines[0].Sylls[pivotIdx]
		pivotPrev := lines[0].Prev(pivotIdx)

		isBarys := true
		for i := range lines {
			idx := comparedIndex(unitLists[i][pos])
			if !barysPair(&lines[i].Sylls[idx], pivotSyll, lines[i].Prev(idx), pivotPrev) {
				isBarys = false
				break
			}
		}
		if isBarys {
			rec := make(Match, 0, len(lines))
			for i := range lines {
				u := unitLists[i][pos]
				idx := comparedIndex(u)
				s := &lines[i].Sylls[idx]
				rec = append(rec, Entry{
					Line:    lines[i].N,
					Ordinal: u.Ordinal(),
					Text:    barysText(s, lines[i].Prev(idx)),
				})
			}
			res.Barys = append(res.Barys, rec)
			continue
		}

		isOxys := true
		for i := range lines {
			if !oxysSyll(lines[i], comparedIndex(unitLists[i][pos])) {
				isOxys = false
				break
			}
		}
		if isOxys {
			rec := make(Match, 0, len(lines))
			for i := range lines {
				u := unitLists[i][pos]
				idx := comparedIndex(u)
				rec = append(rec, Entry{
					Line:    lines[i].N,
					Ordinal: u.Ordinal(),
					Text:    oxysText(&lines[i].Sylls[idx], lines[i].Next(idx)),
				})
			}
			res.Oxys = append(res.Oxys, rec)
		}
	}
	return res, nil
}

// Potentials counts syllables that could participate in barys or oxys
// correspondence, regardless of whether any counterpart matches. They serve
// as denominators for the barys/oxys percentages and significance tests.
type Potentials struct {
	Barys int `json:"barys"`
	Oxys  int `json:"oxys"`
}

// Add accumulates o into p.
func (p *Potentials) Add(o Potentials) {
	p.Barys += o.Barys
	p.Oxys += o.Oxys
}

func linePotentials(l *verse.Line) Potentials {
	var pot Potentials
	for i := range l.Sylls {
		s := &l.Sylls[i]
		if s.HasAccent(accent.Circumflex) || heavyPrevAcute(s, l.Prev(i)) {
			pot.Barys++
		}
		if oxysSyll(l, i) {
			pot.Oxys++
		}
	}
	return pot
}

// CountPotentials scans every syllable of the given plays. Neighbor checks
// stay inside each line: a line's first syllable has no preceding syllable
// and its last has no following one.
func CountPotentials(plays ...*verse.Play) Potentials {
	var pot Potentials
	for _, p := range plays {
		for si := range p.Strophes {
			for li := range p.Strophes[si].Lines {
				pot.Add(linePotentials(&p.Strophes[si].Lines[li]))
			}
		}
	}
	return pot
}

// CanticumPotentials scans every syllable of one canticum's strophes.
func CanticumPotentials(c *verse.Canticum) Potentials {
	var pot Potentials
	for _, s := range c.Strophes {
		for li := range s.Lines {
			pot.Add(linePotentials(&s.Lines[li]))
		}
	}
	return pot
}
