package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/strophic/responsion/core/contour"
)

// RenderContours writes the combined contour analysis of one canticum: the
// position tallies, then per line tuple the numbered positions with contour
// siglum, value, match status and compatibility ratio.
func RenderContours(w io.Writer, cc *contour.CanticumContours) {
	fmt.Fprintf(w, "Canticum %s: %d positions, %d matches, %d repeats, %d clashes\n",
		cc.Responsion, cc.Positions, cc.Matches, cc.Repeats, cc.Clashes)
	for _, lc := range cc.Lines {
		fmt.Fprintf(w, "\n%s\n", strings.Join(lc.Refs, " ~ "))
		for i := range lc.Combined {
			fmt.Fprintf(w, "%3d  %-3s %-7s %-4s %.2f\n",
				i+1, lc.Combined[i].Arrow(), lc.Combined[i], lc.Statuses[i], lc.Ratios[i])
		}
	}
}
