package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/strophic/responsion/core/accent"
	"github.com/strophic/responsion/core/responsion"
)

// RenderDetails writes per-canticum match listings in sorted canticum order:
// record counts per category, then every record's entries in
// (line, ordinal) => "text" form.
func RenderDetails(w io.Writer, res *responsion.Result) {
	for _, cr := range sortedCantica(res) {
		fmt.Fprintf(w, "Responsion: %s\n", cr.Responsion)
		if cr.Skipped {
			fmt.Fprintf(w, "Skipped: %s\n\n", cr.SkipReason)
			continue
		}
		fmt.Fprintf(w, "Acute matches:      %d\n", len(cr.Matches.Acute))
		fmt.Fprintf(w, "Grave matches:      %d\n", len(cr.Matches.Grave))
		fmt.Fprintf(w, "Circumflex matches: %d\n", len(cr.Matches.Circumflex))
		fmt.Fprintf(w, "Barys matches:      %d\n", len(cr.BarysOxys.Barys))
		fmt.Fprintf(w, "Oxys matches:       %d\n", len(cr.BarysOxys.Oxys))
		fmt.Fprintln(w)

		for _, cat := range accent.Categories() {
			renderRecords(w, strings.ToUpper(cat.String()), cr.Matches.ByCategory(cat))
		}
		renderRecords(w, "BARYS", cr.BarysOxys.Barys)
		renderRecords(w, "OXYS", cr.BarysOxys.Oxys)
		fmt.Fprintln(w)
	}
}

// RenderBarysDetails writes barys/oxys listings only, for the barys-focused
// analysis mode.
func RenderBarysDetails(w io.Writer, res *responsion.Result) {
	for _, cr := range sortedCantica(res) {
		fmt.Fprintf(w, "Responsion: %s\n", cr.Responsion)
		if cr.Skipped {
			fmt.Fprintf(w, "Skipped: %s\n\n", cr.SkipReason)
			continue
		}
		renderRecords(w, "BARYS", cr.BarysOxys.Barys)
		renderRecords(w, "OXYS", cr.BarysOxys.Oxys)
		fmt.Fprintln(w)
	}
}

func renderRecords(w io.Writer, label string, recs []responsion.Match) {
	fmt.Fprintf(w, "--- %s MATCHES (%d) ---\n", label, len(recs))
	for i, rec := range recs {
		fmt.Fprintf(w, "  Match #%d:\n", i+1)
		for _, e := range rec {
			fmt.Fprintf(w, "    (%s, ordinal=%d) => %q\n", e.Line, e.Ordinal, e.Text)
		}
		fmt.Fprintln(w)
	}
}
