package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/strophic/responsion/core/accent"
	"github.com/strophic/responsion/core/metre"
	"github.com/strophic/responsion/core/responsion"
	"github.com/strophic/responsion/core/verse"
)

// matchedOrdinals collects the unit ordinals of line n that take part in the
// given records.
func matchedOrdinals(recs []responsion.Match, n string) map[int]bool {
	out := make(map[int]bool)
	for _, rec := range recs {
		for _, e := range rec {
			if e.Line == n {
				out[e.Ordinal] = true
			}
		}
	}
	return out
}

// SurfacePattern renders a line's surface metre, one siglum per comparison
// unit: "-" heavy, "u" light, "x" anceps, "(uu)" for a resolved pair.
func SurfacePattern(l *verse.Line) string {
	return annotatedPattern(l, nil, nil)
}

// AnnotatedPattern renders the surface metre with the line's matched accent
// positions marked: ' after an acute-matched siglum (on the accented
// sub-syllable inside a resolved pair), ^ after a circumflex-matched heavy.
// Anceps positions stay a bare x.
func AnnotatedPattern(l *verse.Line, m *responsion.Matches) string {
	if m == nil {
		return annotatedPattern(l, nil, nil)
	}
	return annotatedPattern(l, matchedOrdinals(m.Acute, l.N), matchedOrdinals(m.Circumflex, l.N))
}

func annotatedPattern(l *verse.Line, acute, circ map[int]bool) string {
	var b strings.Builder
	for _, u := range responsion.BuildUnits(l) {
		switch u := u.(type) {
		case responsion.Single:
			s := &l.Sylls[u.Idx]
			switch {
			case s.Anceps:
				b.WriteString("x")
			case s.Weight == verse.Heavy:
				switch {
				case circ[u.Ord]:
					b.WriteString("-^")
				case acute[u.Ord]:
					b.WriteString("-'")
				default:
					b.WriteString("-")
				}
			default:
				if acute[u.Ord] {
					b.WriteString("u'")
				} else {
					b.WriteString("u")
				}
			}
		case responsion.Double:
			switch {
			case acute[u.Ord] && l.Sylls[u.First].HasAccent(accent.Acute):
				b.WriteString("(u'u)")
			case acute[u.Ord] && l.Sylls[u.Second].HasAccent(accent.Acute):
				b.WriteString("(uu')")
			default:
				b.WriteString("(uu)")
			}
		}
	}
	return b.String()
}

// RenderCanticum writes every strophe of a responding canticum: per line the
// accent-annotated metre pattern with the canonical form it reduces to in
// brackets, then the restored text. Returns the match error unchanged when
// the canticum does not respond.
func RenderCanticum(w io.Writer, c *verse.Canticum) error {
	m, err := responsion.MatchStrophes(c.Strophes...)
	if err != nil {
		return err
	}
	for i, st := range c.Strophes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s:\n", st.Kind, c.Responsion)
		for li := range st.Lines {
			l := &st.Lines[li]
			fmt.Fprintf(w, "%s: %s [%s]\n", l.N, AnnotatedPattern(l, m), metre.Pattern(metre.Canonical(l)))
			fmt.Fprintln(w, l.Text())
		}
	}
	return nil
}

// firstRef is the parsed reference of the canticum's opening line, nil when
// the canticum is empty or the edition numbers it unparseably.
func firstRef(c *verse.Canticum) *verse.Ref {
	if len(c.Strophes) == 0 || len(c.Strophes[0].Lines) == 0 {
		return nil
	}
	r, err := verse.ParseRef(c.Strophes[0].Lines[0].N)
	if err != nil {
		return nil
	}
	return r
}

// canticumSpan renders the edition line range a canticum covers, from the
// first line of its first strophe to the last line of its last strophe.
func canticumSpan(c *verse.Canticum) string {
	first := firstRef(c)
	if first == nil {
		return ""
	}
	lastLines := c.Strophes[len(c.Strophes)-1].Lines
	last, err := verse.ParseRef(lastLines[len(lastLines)-1].N)
	if err != nil {
		return ""
	}

	span := &verse.Ref{Start: first.Start, StartSuffix: first.StartSuffix}
	end, endSuffix := last.Start, last.StartSuffix
	if last.IsSpan() {
		end, endSuffix = last.End, last.EndSuffix
	}
	if end != span.Start || endSuffix != span.StartSuffix {
		span.End, span.EndSuffix = end, endSuffix
	}
	return span.String()
}

// RenderCantica lists each play's responsion ids with their strophe shapes,
// line counts and the edition line range they cover. Cantica print in
// edition order, by parsed opening-line reference, so subdivided numbers
// like "1019a" sort after "1019" rather than lexically.
func RenderCantica(w io.Writer, plays ...*verse.Play) {
	for _, p := range plays {
		cantica := p.Cantica()
		sort.SliceStable(cantica, func(i, j int) bool {
			a, b := firstRef(cantica[i]), firstRef(cantica[j])
			if a == nil || b == nil {
				return false
			}
			return a.Less(b)
		})
		for _, c := range cantica {
			kinds := make([]string, len(c.Strophes))
			for i, st := range c.Strophes {
				kinds[i] = st.Kind.String()
			}
			fmt.Fprintf(w, "%s: %s, %d lines", c.Responsion, strings.Join(kinds, " + "), c.Lines())
			if span := canticumSpan(c); span != "" {
				fmt.Fprintf(w, " (%s)", span)
			}
			fmt.Fprintln(w)
		}
	}
}
