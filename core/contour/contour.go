// Package contour reconstructs the melodic contour constraints that word
// accents impose on a sung line, and compares them across responding
// strophes.
//
// The per-syllable analysis is a heuristic: the melody rises toward a
// word's main accent, falls after it, and is unconstrained across a word
// boundary. Graves and proclitics admit at most a small rise. The n-way
// comparison combines the contours of every strophe position by position
// and scores how compatible they are with a single melody.
package contour

import (
	"strings"

	"github.com/strophic/responsion/core/accent"
	"github.com/strophic/responsion/core/verse"
)

// Contour is the melodic constraint carried by one syllable, or by one
// position after combination across strophes.
type Contour string

const (
	// Neutral places no constraint on the melody; word ends produce it.
	Neutral Contour = "N"
	// Up marks the rise before a word's main accent.
	Up Contour = "UP"
	// UpGrave marks the small rise or repetition after a grave or a
	// proclitic.
	UpGrave Contour = "UP-G"
	// Down marks the fall after the accent.
	Down Contour = "DN"
	// DownAccent marks the characteristic fall off the main accent itself.
	DownAccent Contour = "DN-A"

	// Combined-only values.

	// Repeat marks a position whose strophes disagree on direction; the
	// melody can only repeat the note.
	Repeat Contour = "="
	// RepeatAccent is a Repeat where at least one strophe carries its main
	// accent at the position.
	RepeatAccent Contour = "=-A"
	// CircDown is an all-circumflex position on a main accent.
	CircDown Contour = "CIRC-DN"
	// CircFlat is an all-circumflex position off the main accent.
	CircFlat Contour = "CIRC-X"
)

// IsValid returns true if the contour is one of the known values.
func (c Contour) IsValid() bool {
	switch c {
	case Neutral, Up, UpGrave, Down, DownAccent,
		Repeat, RepeatAccent, CircDown, CircFlat:
		return true
	}
	return false
}

func (c Contour) String() string {
	return string(c)
}

// Arrow renders the contour as the siglum used in listings.
func (c Contour) Arrow() string {
	switch c {
	case Neutral:
		return "x"
	case Repeat:
		return "="
	case RepeatAccent:
		return "≠"
	case UpGrave:
		return "≤"
	case Up:
		return "↗"
	case DownAccent:
		return "⇘"
	case Down:
		return "↘"
	case CircDown:
		return "★↘"
	case CircFlat:
		return "★x"
	}
	return "?"
}

// IsRepeat reports whether a combined contour pins the melody to a
// repeated note.
func (c Contour) IsRepeat() bool {
	return c == Repeat || c == RepeatAccent
}

// Arrows renders a contour sequence as space-joined sigla.
func Arrows(cs []Contour) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.Arrow()
	}
	return strings.Join(parts, " ")
}

// Contours assigns a contour to every syllable of the line.
//
// The scan tracks whether the melody still sits before the current word's
// main accent. An acute or circumflex on a pre-accent syllable yields
// DownAccent and flips the state; a later accent in the same word (an
// enclitic's throwback) yields a plain Down. A word end neutralizes the
// syllable's own contour, so a circumflex on a word-final syllable comes
// out Neutral; when the following syllable spells an enclitic, the
// neutralized contour is reinstated, since the enclitic binds the two
// words into one accentual unit. A word boundary inside a resolved pair
// restores the pre-accent state before the syllable is judged. Graves and
// proclitics override everything with UpGrave.
func Contours(l *verse.Line) []Contour {
	contours := make([]Contour, 0, len(l.Sylls))
	preAccent := true
	var last Contour

	for i := range l.Sylls {
		s := &l.Sylls[i]
		wordEnd := l.WordEnd(i)

		if s.Resolution && wordEnd {
			preAccent = true
		}

		if n := len(contours); n > 0 && contours[n-1] == Neutral &&
			IsEnclitic(s.Text) && !IsProclitic(s.Text) {
			contours[n-1] = last
			preAccent = false
		}

		var c Contour
		switch {
		case s.HasAccent(accent.Acute) || s.HasAccent(accent.Circumflex):
			if preAccent {
				c = DownAccent
				preAccent = false
			} else {
				c = Down
			}
		case preAccent:
			c = Up
		default:
			c = Down
		}

		if wordEnd {
			last = c
			c = Neutral
			preAccent = true
		}

		if IsProclitic(s.Text) || s.HasAccent(accent.Grave) {
			c = UpGrave
		}

		contours = append(contours, c)
	}
	return contours
}

// Mark is the accent category of one syllable for contour purposes, at
// most one per syllable.
type Mark string

const (
	MarkNone       Mark = ""
	MarkAcute      Mark = "A"
	MarkGrave      Mark = "G"
	MarkCircumflex Mark = "C"
)

func markOf(s *verse.Syllable) Mark {
	switch {
	case accent.HasAcute(s.Text):
		return MarkAcute
	case accent.HasCircumflex(s.Text):
		return MarkCircumflex
	case accent.HasGrave(s.Text):
		return MarkGrave
	}
	return MarkNone
}
