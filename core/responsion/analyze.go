package responsion

import (
	"strings"

	"github.com/strophic/responsion/core/accent"
	"github.com/strophic/responsion/core/errors"
	"github.com/strophic/responsion/core/verse"
	"github.com/strophic/responsion/internal/logging"
)

// checkStrophes gates a strophe tuple: at least two members, one shared
// responsion id, equal line counts.
func checkStrophes(strophes []*verse.Strophe) error {
	if len(strophes) < 2 {
		return errors.NewValidation("strophes", "comparison needs at least two strophes")
	}
	id := strophes[0].Responsion
	for _, st := range strophes[1:] {
		if st.Responsion != id {
			return errors.Wrapf(errors.ErrMismatch, "responsion ids %q vs %q", id, st.Responsion)
		}
		if len(st.Lines) != len(strophes[0].Lines) {
			return errors.NewMismatch(id, "line count", len(strophes[0].Lines), len(st.Lines))
		}
	}
	return nil
}

// withResponsion stamps the canticum id on errors raised at line level.
func withResponsion(err error, id string) error {
	var nr *errors.NotRespondingError
	if errors.As(err, &nr) && nr.Responsion == "" {
		nr.Responsion = id
		return nr
	}
	var mm *errors.MismatchError
	if errors.As(err, &mm) && mm.Responsion == "" {
		mm.Responsion = id
		return mm
	}
	return err
}

// MatchStrophes aggregates accent matches line by line across two or more
// strophes sharing one responsion id. Line tuples pair positionally; every
// tuple must respond metrically, and a single failure invalidates the whole
// comparison.
func MatchStrophes(strophes ...*verse.Strophe) (*Matches, error) {
	if err := checkStrophes(strophes); err != nil {
		return nil, err
	}
	id := strophes[0].Responsion
	m := &Matches{}
	tuple := make([]*verse.Line, len(strophes))
	for li := range strophes[0].Lines {
		for si, st := range strophes {
			tuple[si] = &st.Lines[li]
		}
		lm, err := MatchLines(tuple...)
		if err != nil {
			return nil, withResponsion(err, id)
		}
		m.Extend(lm)
	}
	return m, nil
}

// BarysOxysStrophes aggregates barys/oxys matches line by line across two
// or more strophes sharing one responsion id, under the same gates as
// MatchStrophes.
func BarysOxysStrophes(strophes ...*verse.Strophe) (*BarysOxys, error) {
	if err := checkStrophes(strophes); err != nil {
		return nil, err
	}
	id := strophes[0].Responsion
	b := &BarysOxys{}
	tuple := make([]*verse.Line, len(strophes))
	for li := range strophes[0].Lines {
		for si, st := range strophes {
			tuple[si] = &st.Lines[li]
		}
		lb, err := BarysOxysLines(tuple...)
		if err != nil {
			return nil, withResponsion(err, id)
		}
		b.Extend(lb)
	}
	return b, nil
}

// CanticumResult is the analysis outcome for one canticum. Accents and
// Potentials are the canticum's own universes; Matches and BarysOxys are
// nil when the canticum was skipped.
type CanticumResult struct {
	Responsion   string                  `json:"responsion"`
	Infix        string                  `json:"infix,omitempty"`
	Strophes     int                     `json:"strophes"`
	Lines        int                     `json:"lines"`
	Polystrophic bool                    `json:"polystrophic"`
	Matches      *Matches                `json:"matches,omitempty"`
	BarysOxys    *BarysOxys              `json:"barys_oxys,omitempty"`
	Accents      map[accent.Category]int `json:"accents"`
	Potentials   Potentials              `json:"potentials"`
	Skipped      bool                    `json:"skipped,omitempty"`
	SkipReason   string                  `json:"skip_reason,omitempty"`
}

// MatchedEntries returns the canticum's matched entry count for one
// category, zero when skipped.
func (cr *CanticumResult) MatchedEntries(c accent.Category) int {
	if cr.Matches == nil {
		return 0
	}
	return cr.Matches.Entries(c)
}

// AcuteCircumflexMatched is the successes count fed to the significance
// test: matched acute plus matched circumflex entries.
func (cr *CanticumResult) AcuteCircumflexMatched() int {
	return cr.MatchedEntries(accent.Acute) + cr.MatchedEntries(accent.Circumflex)
}

// MatchedBarys returns the canticum's barys entry count, zero when skipped.
func (cr *CanticumResult) MatchedBarys() int {
	if cr.BarysOxys == nil {
		return 0
	}
	return cr.BarysOxys.BarysEntries()
}

// MatchedOxys returns the canticum's oxys entry count, zero when skipped.
func (cr *CanticumResult) MatchedOxys() int {
	if cr.BarysOxys == nil {
		return 0
	}
	return cr.BarysOxys.OxysEntries()
}

func logSkip(id string, err error) {
	var mm *errors.MismatchError
	if errors.As(err, &mm) {
		logging.StructuralMismatch(id, mm.Quantity, mm.Want, mm.Got)
		return
	}
	logging.CanticumSkipped(id, err.Error())
}

// AnalyzeCanticum runs accent and barys/oxys matching over one canticum.
// Structural mismatches and failed responsion do not abort a run: the
// result comes back with Skipped set, the reason recorded and logged, and
// zero matched counts.
func AnalyzeCanticum(c *verse.Canticum) *CanticumResult {
	res := &CanticumResult{
		Responsion:   c.Responsion,
		Strophes:     len(c.Strophes),
		Lines:        c.Lines(),
		Polystrophic: c.Polystrophic(),
		Accents:      c.Accents(),
		Potentials:   CanticumPotentials(c),
	}
	if len(c.Strophes) < 2 {
		res.Skipped = true
		res.SkipReason = "fewer than two strophes"
		logging.CanticumSkipped(c.Responsion, res.SkipReason, "strophes", len(c.Strophes))
		return res
	}
	matches, err := MatchStrophes(c.Strophes...)
	if err != nil {
		res.Skipped = true
		res.SkipReason = err.Error()
		logSkip(c.Responsion, err)
		return res
	}
	bo, err := BarysOxysStrophes(c.Strophes...)
	if err != nil {
		res.Skipped = true
		res.SkipReason = err.Error()
		logSkip(c.Responsion, err)
		return res
	}
	res.Matches = matches
	res.BarysOxys = bo
	return res
}

// PlayResult groups canticum results for one play together with the play's
// accent occurrences, barys/oxys potentials and syllable count.
type PlayResult struct {
	Infix      string                  `json:"infix"`
	Title      string                  `json:"title,omitempty"`
	Cantica    []*CanticumResult       `json:"cantica"`
	Accents    map[accent.Category]int `json:"accents"`
	Potentials Potentials              `json:"potentials"`
	Syllables  int                     `json:"syllables"`
}

// AnalyzePlay analyzes every canticum of one play.
func AnalyzePlay(p *verse.Play) *PlayResult {
	pr := &PlayResult{
		Infix:      p.Infix,
		Title:      p.Title,
		Accents:    verse.CountAccents(p),
		Potentials: CountPotentials(p),
		Syllables:  verse.CountSyllables(p),
	}
	for _, c := range p.Cantica() {
		cr := AnalyzeCanticum(c)
		cr.Infix = p.Infix
		pr.Cantica = append(pr.Cantica, cr)
	}
	return pr
}

// Result is a whole-run aggregate over one or more plays.
type Result struct {
	Plays []*PlayResult `json:"plays"`
}

// Analyze runs every canticum of every play.
func Analyze(plays ...*verse.Play) *Result {
	r := &Result{}
	for _, p := range plays {
		r.Plays = append(r.Plays, AnalyzePlay(p))
	}
	logging.AnalysisRun(strings.Join(r.Infixes(), ","), len(r.Plays), len(r.Cantica()))
	return r
}

// Infixes lists the analyzed plays in input order.
func (r *Result) Infixes() []string {
	out := make([]string, len(r.Plays))
	for i, pr := range r.Plays {
		out[i] = pr.Infix
	}
	return out
}

// Cantica returns every canticum result in play order.
func (r *Result) Cantica() []*CanticumResult {
	var out []*CanticumResult
	for _, pr := range r.Plays {
		out = append(out, pr.Cantica...)
	}
	return out
}

// MatchedEntries sums matched entries for one category over the whole run.
func (r *Result) MatchedEntries(c accent.Category) int {
	n := 0
	for _, cr := range r.Cantica() {
		n += cr.MatchedEntries(c)
	}
	return n
}

// Universe returns the run-wide occurrence count of one category.
func (r *Result) Universe(c accent.Category) int {
	n := 0
	for _, pr := range r.Plays {
		n += pr.Accents[c]
	}
	return n
}

// AcuteCircumflexUniverse is the trials count fed to the significance
// tests: every acute and circumflex occurrence in the run.
func (r *Result) AcuteCircumflexUniverse() int {
	return r.Universe(accent.Acute) + r.Universe(accent.Circumflex)
}

// MatchedBarys sums barys entries over the whole run.
func (r *Result) MatchedBarys() int {
	n := 0
	for _, cr := range r.Cantica() {
		n += cr.MatchedBarys()
	}
	return n
}

// MatchedOxys sums oxys entries over the whole run.
func (r *Result) MatchedOxys() int {
	n := 0
	for _, cr := range r.Cantica() {
		n += cr.MatchedOxys()
	}
	return n
}

// PotentialsTotal returns the run-wide barys/oxys universe.
func (r *Result) PotentialsTotal() Potentials {
	var pot Potentials
	for _, pr := range r.Plays {
		pot.Add(pr.Potentials)
	}
	return pot
}

// Syllables returns the run-wide syllable count.
func (r *Result) Syllables() int {
	n := 0
	for _, pr := range r.Plays {
		n += pr.Syllables
	}
	return n
}
