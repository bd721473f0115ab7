package corpus

import (
	"math/rand"

	"github.com/strophic/responsion/core/verse"
)

// ShuffleLines returns a copy of the play with the lines of every strophe
// reordered at random. Strophe membership, kinds and responsion ids stay
// put, so the shuffled play keeps the corpus shape while destroying the
// line-level correspondences. Analyzing such copies calibrates the match
// rate expected by chance. Syllables are shared with the source play;
// analysis never mutates them.
func ShuffleLines(p *verse.Play, rng *rand.Rand) *verse.Play {
	out := &verse.Play{
		Infix:    p.Infix,
		Title:    p.Title,
		Strophes: make([]verse.Strophe, len(p.Strophes)),
	}
	for i := range p.Strophes {
		s := &p.Strophes[i]
		lines := make([]verse.Line, len(s.Lines))
		copy(lines, s.Lines)
		rng.Shuffle(len(lines), func(a, b int) {
			lines[a], lines[b] = lines[b], lines[a]
		})
		out.Strophes[i] = verse.Strophe{Kind: s.Kind, Responsion: s.Responsion, Lines: lines}
	}
	return out
}
