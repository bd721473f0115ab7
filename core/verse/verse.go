// Package verse models compiled choral lyric: plays, cantica, strophes,
// lines and their scanned syllables.
//
// The model mirrors the compiled corpus markup. A play holds strophes in
// document order; strophes that share a responsion id form a canticum. Lines
// carry their syllables exactly as scanned, with resolution, contraction,
// anceps and brevis-in-longo marks preserved; nothing here reduces or merges
// positions. That is the metre package's job.
package verse

import (
	"strings"

	"github.com/strophic/responsion/core/accent"
	"github.com/strophic/responsion/core/errors"
)

// Weight is the metrical quantity of a syllable.
type Weight string

const (
	// Heavy is a long position (longum).
	Heavy Weight = "heavy"
	// Light is a short position (breve).
	Light Weight = "light"
)

// IsValid returns true if the weight is one of the known values.
func (w Weight) IsValid() bool {
	switch w {
	case Heavy, Light:
		return true
	}
	return false
}

func (w Weight) String() string {
	return string(w)
}

// ParseWeight converts a weight attribute value. The empty string defaults
// to light, the corpus convention for unmarked syllables.
func ParseWeight(s string) (Weight, error) {
	if s == "" {
		return Light, nil
	}
	w := Weight(s)
	if !w.IsValid() {
		return "", errors.NewValidation("weight", "unknown value "+s)
	}
	return w, nil
}

// Syllable is one scanned syllable of a line.
type Syllable struct {
	Text          string `json:"text"`                      // syllable text with original spacing, markup stripped
	Tail          string `json:"tail,omitempty"`            // source text between this syllable and the next
	Weight        Weight `json:"weight"`                    // metrical quantity
	Anceps        bool   `json:"anceps,omitempty"`          // position admits either quantity
	Resolution    bool   `json:"resolution,omitempty"`      // this light is half of a resolved heavy
	Contraction   bool   `json:"contraction,omitempty"`     // this heavy stands where two lights could
	BrevisInLongo bool   `json:"brevis_in_longo,omitempty"` // line-final light counted heavy
}

// HasAccent reports whether the syllable's text carries the given mark.
func (s *Syllable) HasAccent(c accent.Category) bool {
	return accent.Has(s.Text, c)
}

// spaceBeforeVowel reports whether a space precedes the first vowel of text.
func spaceBeforeVowel(text string) bool {
	prevSpace := false
	for _, r := range text {
		if accent.IsVowel(r) {
			return prevSpace
		}
		prevSpace = r == ' '
	}
	return false
}

// spaceAfterVowel reports whether a space follows the last vowel of text.
func spaceAfterVowel(text string) bool {
	runes := []rune(text)
	last := -1
	for i, r := range runes {
		if accent.IsVowel(r) {
			last = i
		}
	}
	return last != -1 && last < len(runes)-1 && runes[last+1] == ' '
}

// Line is one verse line with its scansion.
type Line struct {
	N     string     `json:"n"`     // edition line reference ("301", "208-209", "1019a")
	Metre string     `json:"metre"` // colon label from the edition ("2tr^", "4da", ...)
	Sylls []Syllable `json:"sylls"`
}

// Prev returns the syllable before raw index i, or nil at the line start.
// Lookups never cross line boundaries.
func (l *Line) Prev(i int) *Syllable {
	if i <= 0 || i >= len(l.Sylls) {
		return nil
	}
	return &l.Sylls[i-1]
}

// Next returns the syllable after raw index i, or nil at the line end.
func (l *Line) Next(i int) *Syllable {
	if i < 0 || i+1 >= len(l.Sylls) {
		return nil
	}
	return &l.Sylls[i+1]
}

// WordEnd reports whether a word boundary follows the syllable at raw index
// i: a space after its last vowel, a space in its tail, or a space before
// the next syllable's first vowel. Compiled lines keep a trailing space in
// the final tail, so line ends register as word ends through the same rule.
func (l *Line) WordEnd(i int) bool {
	if i < 0 || i >= len(l.Sylls) {
		return false
	}
	s := &l.Sylls[i]
	if spaceAfterVowel(s.Text) || strings.Contains(s.Tail, " ") {
		return true
	}
	if next := l.Next(i); next != nil {
		return spaceBeforeVowel(next.Text)
	}
	return false
}

// Text reassembles the line's plain text, collapsing the spacing artifacts
// of syllable markup.
func (l *Line) Text() string {
	var b strings.Builder
	for i := range l.Sylls {
		b.WriteString(l.Sylls[i].Text)
		b.WriteString(l.Sylls[i].Tail)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// StropheKind distinguishes strophe from antistrophe.
type StropheKind string

const (
	KindStrophe     StropheKind = "strophe"
	KindAntistrophe StropheKind = "antistrophe"
)

// IsValid returns true if the kind is one of the known values.
func (k StropheKind) IsValid() bool {
	switch k {
	case KindStrophe, KindAntistrophe:
		return true
	}
	return false
}

func (k StropheKind) String() string {
	return string(k)
}

// ParseStropheKind converts a type attribute value.
func ParseStropheKind(s string) (StropheKind, error) {
	k := StropheKind(s)
	if !k.IsValid() {
		return "", errors.NewValidation("type", "unknown strophe kind "+s)
	}
	return k, nil
}

// Strophe is one stanza of a canticum.
type Strophe struct {
	Kind       StropheKind `json:"kind"`
	Responsion string      `json:"responsion"` // canticum id, e.g. "v01"
	Lines      []Line      `json:"lines"`
}

// Play is one compiled play: its strophes in document order.
type Play struct {
	Infix    string    `json:"infix"` // corpus infix ("ach", "nu", "v", ...)
	Title    string    `json:"title,omitempty"`
	Strophes []Strophe `json:"strophes"`
}

// Canticum groups the strophes that share a responsion id, in document
// order. Two strophes make the ordinary strophic pair; three or more make a
// polystrophic song.
type Canticum struct {
	Responsion string
	Strophes   []*Strophe
}

// Polystrophic reports whether more than two strophes respond.
func (c *Canticum) Polystrophic() bool {
	return len(c.Strophes) > 2
}

// Lines returns the line count of the first strophe, the shape the rest are
// expected to share.
func (c *Canticum) Lines() int {
	if len(c.Strophes) == 0 {
		return 0
	}
	return len(c.Strophes[0].Lines)
}

// Accents tallies, per category, the canticum's syllables whose text
// carries that mark.
func (c *Canticum) Accents() map[accent.Category]int {
	counts := make(map[accent.Category]int, 3)
	for _, s := range c.Strophes {
		for i := range s.Lines {
			for j := range s.Lines[i].Sylls {
				for _, cat := range accent.Classify(s.Lines[i].Sylls[j].Text) {
					counts[cat]++
				}
			}
		}
	}
	return counts
}

// Cantica groups the play's strophes by responsion id, preserving the order
// in which ids first appear.
func (p *Play) Cantica() []*Canticum {
	var out []*Canticum
	byID := make(map[string]*Canticum)
	for i := range p.Strophes {
		s := &p.Strophes[i]
		c, ok := byID[s.Responsion]
		if !ok {
			c = &Canticum{Responsion: s.Responsion}
			byID[s.Responsion] = c
			out = append(out, c)
		}
		c.Strophes = append(c.Strophes, s)
	}
	return out
}

// Canticum returns the canticum with the given responsion id.
func (p *Play) Canticum(id string) (*Canticum, error) {
	for _, c := range p.Cantica() {
		if c.Responsion == id {
			return c, nil
		}
	}
	return nil, errors.NewNotFound("canticum", id)
}

// AllCantica collects the cantica of several plays in document order.
func AllCantica(plays ...*Play) []*Canticum {
	var out []*Canticum
	for _, p := range plays {
		out = append(out, p.Cantica()...)
	}
	return out
}

// CountAccents tallies, per category, the syllables whose text carries that
// mark. A syllable bearing two different marks counts once for each.
func CountAccents(plays ...*Play) map[accent.Category]int {
	counts := make(map[accent.Category]int, 3)
	for _, p := range plays {
		for i := range p.Strophes {
			for j := range p.Strophes[i].Lines {
				line := &p.Strophes[i].Lines[j]
				for k := range line.Sylls {
					for _, cat := range accent.Classify(line.Sylls[k].Text) {
						counts[cat]++
					}
				}
			}
		}
	}
	return counts
}

// CountSyllables tallies every scanned syllable.
func CountSyllables(plays ...*Play) int {
	n := 0
	for _, p := range plays {
		for i := range p.Strophes {
			for j := range p.Strophes[i].Lines {
				n += len(p.Strophes[i].Lines[j].Sylls)
			}
		}
	}
	return n
}
