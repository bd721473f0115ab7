// Package report renders analysis results for the terminal: the combined
// summary with its significance-colored canticum list, per-match detail
// listings, accent-annotated metre patterns and contour tables.
//
// Every renderer writes to an io.Writer; the CLI passes os.Stdout.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/strophic/responsion/core/accent"
	"github.com/strophic/responsion/core/responsion"
	"github.com/strophic/responsion/core/stats"
	"github.com/strophic/responsion/internal/corpus"
)

const banner = `
                                     _
 _ __ ___  ___ _ __   ___  _ __  ___(_) ___  _ __
| '__/ _ \/ __| '_ \ / _ \| '_ \/ __| |/ _ \| '_ \
| | |  __/\__ \ |_) | (_) | | | \__ \ | (_) | | | |
|_|  \___||___/ .__/ \___/|_| |_|___/_|\___/|_| |_|
              |_|
`

// ANSI codes for the canticum list. Green marks a canticum whose
// acute+circumflex responsion tests significant, red one that does not or
// whose test is inapplicable.
const (
	ansiGreen = "\033[92m"
	ansiRed   = "\033[91m"
	ansiReset = "\033[0m"
)

// CanticumStatus is one canticum's significance outcome in the summary.
// Matched and Universe are the acute+circumflex counts fed to the test.
type CanticumStatus struct {
	Responsion string       `json:"responsion"`
	Matched    int          `json:"matched"`
	Universe   int          `json:"universe"`
	Stats      stats.Result `json:"stats"`
	Skipped    bool         `json:"skipped,omitempty"`
}

// Significant reports whether the canticum's acute+circumflex responsion
// tested significant.
func (cs *CanticumStatus) Significant() bool {
	return cs.Stats.Applicable && cs.Stats.Significant
}

// Summary aggregates one analysis run for the combined report. The
// universes cover exactly what was analyzed: whole plays when plays were
// loaded, a single canticum's strophes when only those were.
type Summary struct {
	Infixes    []string                `json:"infixes"`
	Cantica    []CanticumStatus        `json:"cantica"`
	Matched    map[accent.Category]int `json:"matched"`
	Universe   map[accent.Category]int `json:"universe"`
	Barys      int                     `json:"barys"`
	Oxys       int                     `json:"oxys"`
	Potentials responsion.Potentials   `json:"potentials"`
}

// MatchedAcuteCircumflex is the matched numerator of the TOTAL line: acute
// and circumflex entries, graves excluded.
func (s *Summary) MatchedAcuteCircumflex() int {
	return s.Matched[accent.Acute] + s.Matched[accent.Circumflex]
}

// UniverseAcuteCircumflex is the denominator of the TOTAL line.
func (s *Summary) UniverseAcuteCircumflex() int {
	return s.Universe[accent.Acute] + s.Universe[accent.Circumflex]
}

func sortedCantica(res *responsion.Result) []*responsion.CanticumResult {
	cantica := res.Cantica()
	sort.Slice(cantica, func(i, j int) bool {
		return cantica[i].Responsion < cantica[j].Responsion
	})
	return cantica
}

// Summarize computes the combined summary of an analysis run. Each canticum's
// significance is tested against its own acute+circumflex universe; the tests
// run on a bounded worker pool and come back in sorted canticum order. A
// skipped canticum gets the inapplicable sentinel.
func Summarize(res *responsion.Result, tester *stats.Tester, workers int) (*Summary, error) {
	s := &Summary{
		Infixes:    corpus.Ordered(res.Infixes()),
		Matched:    make(map[accent.Category]int, 3),
		Universe:   make(map[accent.Category]int, 3),
		Barys:      res.MatchedBarys(),
		Oxys:       res.MatchedOxys(),
		Potentials: res.PotentialsTotal(),
	}
	for _, c := range accent.Categories() {
		s.Matched[c] = res.MatchedEntries(c)
		s.Universe[c] = res.Universe(c)
	}

	cantica := sortedCantica(res)
	samples := make([]stats.Sample, len(cantica))
	for i, cr := range cantica {
		if cr.Skipped {
			continue // zero trials, stays inapplicable
		}
		samples[i] = stats.Sample{
			Successes: cr.AcuteCircumflexMatched(),
			Trials:    cr.Accents[accent.Acute] + cr.Accents[accent.Circumflex],
		}
	}
	results, err := tester.TestAll(samples, stats.TwoSided, workers)
	if err != nil {
		return nil, err
	}

	s.Cantica = make([]CanticumStatus, len(cantica))
	for i, cr := range cantica {
		s.Cantica[i] = CanticumStatus{
			Responsion: cr.Responsion,
			Matched:    samples[i].Successes,
			Universe:   samples[i].Trials,
			Stats:      results[i],
			Skipped:    cr.Skipped,
		}
	}
	return s, nil
}

// percent renders matched/universe as a percentage, 0 when the universe is
// empty.
func percent(matched, universe int) float64 {
	if universe <= 0 {
		return 0
	}
	return float64(matched) / float64(universe) * 100
}

func colorize(id string, significant, color bool) string {
	if !color {
		return id
	}
	if significant {
		return ansiGreen + id + ansiReset
	}
	return ansiRed + id + ansiReset
}

// Render writes the combined summary: banner, analyzed plays, the canticum
// list colored by significance, then the accentual and barys/oxys blocks.
func (s *Summary) Render(w io.Writer, color bool) {
	ids := make([]string, len(s.Cantica))
	for i := range s.Cantica {
		ids[i] = colorize(s.Cantica[i].Responsion, s.Cantica[i].Significant(), color)
	}

	fmt.Fprint(w, banner)
	fmt.Fprintf(w, "Analyzed Plays: %s\n", strings.Join(s.Infixes, ", "))
	fmt.Fprintf(w, "Cantica: %s\n\n", strings.Join(ids, ", "))

	fmt.Fprintln(w, "### ACCENTUAL RESPONSION: ###")
	fmt.Fprintf(w, "Acute:      %d/%d = %.1f%%\n",
		s.Matched[accent.Acute], s.Universe[accent.Acute],
		percent(s.Matched[accent.Acute], s.Universe[accent.Acute]))
	fmt.Fprintf(w, "Grave:      %d/%d = %.1f%%\n",
		s.Matched[accent.Grave], s.Universe[accent.Grave],
		percent(s.Matched[accent.Grave], s.Universe[accent.Grave]))
	fmt.Fprintf(w, "Circumflex: %d/%d = %.1f%%\n",
		s.Matched[accent.Circumflex], s.Universe[accent.Circumflex],
		percent(s.Matched[accent.Circumflex], s.Universe[accent.Circumflex]))
	fmt.Fprintf(w, "TOTAL ACUTE AND CIRCUMFLEX: %d/%d = %.1f%%\n",
		s.MatchedAcuteCircumflex(), s.UniverseAcuteCircumflex(),
		percent(s.MatchedAcuteCircumflex(), s.UniverseAcuteCircumflex()))
	fmt.Fprintln(w, "################")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "### BARYS RESPONSION: ###")
	fmt.Fprintf(w, "Barys matches:      %d/%d = %.1f%%\n",
		s.Barys, s.Potentials.Barys, percent(s.Barys, s.Potentials.Barys))
	fmt.Fprintf(w, "Oxys matches:       %d/%d = %.1f%%\n",
		s.Oxys, s.Potentials.Oxys, percent(s.Oxys, s.Potentials.Oxys))
	total := s.Potentials.Barys + s.Potentials.Oxys
	fmt.Fprintf(w, "TOTAL: %d/%d = %.1f%%\n",
		s.Barys+s.Oxys, total, percent(s.Barys+s.Oxys, total))
	fmt.Fprintln(w, "################")
	fmt.Fprintln(w)
}
