// Command responsion analyzes Aristophanic cantica for accentual
// responsion: it loads compiled scansion markup, checks strophe pairs for
// metrical correspondence, counts shared accent placements and reports
// their statistical significance.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/strophic/responsion/core/contour"
	"github.com/strophic/responsion/core/errors"
	"github.com/strophic/responsion/core/responsion"
	"github.com/strophic/responsion/core/stats"
	"github.com/strophic/responsion/core/verse"
	"github.com/strophic/responsion/internal/compiler"
	"github.com/strophic/responsion/internal/corpus"
	"github.com/strophic/responsion/internal/logging"
	"github.com/strophic/responsion/internal/report"
	"github.com/strophic/responsion/internal/store"
	"github.com/strophic/responsion/internal/web"
)

const version = "0.2.0"

// CLI defines the command-line interface for responsion.
var CLI struct {
	Corpus   string `name:"corpus" short:"C" help:"Corpus path: a directory of compiled plays or a .tar.gz/.tar.xz archive." env:"RESPONSION_CORPUS" default:"." type:"path"`
	LogLevel string `help:"Log level." enum:"debug,info,warn,error" default:"warn"`
	LogJSON  bool   `help:"Log in JSON instead of text."`

	Analyze  AnalyzeCmd  `cmd:"" help:"Accentual responsion analysis with the combined summary"`
	Barys    BarysCmd    `cmd:"" help:"Barys/oxys analysis with detailed listings"`
	Contour  ContourCmd  `cmd:"" help:"Combined melodic contours for one canticum"`
	Compile  CompileCmd  `cmd:"" help:"Compile bracket-notation scansion to syllable markup"`
	Metre    MetreCmd    `cmd:"" help:"Metre patterns with accent annotations for one canticum"`
	Cantica  CanticaCmd  `cmd:"" help:"List responsion ids with strophe shapes and line counts"`
	Baseline BaselineCmd `cmd:"" help:"Shuffled-corpus chance baseline, stored per iteration"`
	Runs     RunsGroup   `cmd:"" help:"Stored run queries"`
	Web      WebCmd      `cmd:"" help:"Start the dashboard server"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// openCorpus opens the corpus named by the global flag.
func openCorpus() (corpus.Source, error) {
	return corpus.Open(CLI.Corpus)
}

// splitTargets partitions analysis targets into whole-play infixes and
// canticum labels grouped by their play.
func splitTargets(targets []string) (plays []string, labels map[string][]string, err error) {
	labels = make(map[string][]string)
	for _, t := range targets {
		if corpus.IsInfix(t) {
			plays = append(plays, t)
			continue
		}
		inf, err := corpus.InfixOf(t)
		if err != nil {
			return nil, nil, err
		}
		labels[inf] = append(labels[inf], t)
	}
	return plays, labels, nil
}

// filterCantica keeps only the strophes of the requested cantica, so that
// play-level universes and potentials are scoped to them.
func filterCantica(p *verse.Play, ids []string) (*verse.Play, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := &verse.Play{Infix: p.Infix, Title: p.Title}
	found := make(map[string]bool, len(ids))
	for _, s := range p.Strophes {
		if want[s.Responsion] {
			out.Strophes = append(out.Strophes, s)
			found[s.Responsion] = true
		}
	}
	for _, id := range ids {
		if !found[id] {
			return nil, errors.NewNotFound("canticum", id)
		}
	}
	return out, nil
}

// loadTargets loads the plays the targets name: play infixes load whole
// plays, canticum labels load the owning play filtered to those cantica.
// Without targets every play of the corpus loads.
func loadTargets(src corpus.Source, targets []string) ([]*verse.Play, error) {
	if len(targets) == 0 {
		return corpus.LoadAll(src)
	}
	wholePlays, labels, err := splitTargets(targets)
	if err != nil {
		return nil, err
	}

	whole := make(map[string]bool, len(wholePlays))
	infixes := wholePlays
	for _, inf := range wholePlays {
		whole[inf] = true
	}
	for inf := range labels {
		if !whole[inf] {
			infixes = append(infixes, inf)
		}
	}

	var plays []*verse.Play
	for _, inf := range corpus.Ordered(infixes) {
		p, err := corpus.LoadPlay(src, inf)
		if err != nil {
			return nil, err
		}
		if !whole[inf] {
			if p, err = filterCantica(p, labels[inf]); err != nil {
				return nil, err
			}
		}
		plays = append(plays, p)
	}
	return plays, nil
}

// targetLabel names a run in the store.
func targetLabel(targets []string) string {
	if len(targets) == 0 {
		return "all"
	}
	return strings.Join(targets, ",")
}

// fingerprintPlays hashes the compiled documents feeding a run.
func fingerprintPlays(src corpus.Source, res *responsion.Result) (string, error) {
	docs := make([][]byte, 0, len(res.Plays))
	for _, inf := range res.Infixes() {
		data, err := src.ReadCompiled(inf)
		if err != nil {
			return "", err
		}
		docs = append(docs, data)
	}
	return store.Fingerprint(docs...), nil
}

func percent(matched, universe int) float64 {
	if universe <= 0 {
		return 0
	}
	return float64(matched) / float64(universe) * 100
}

// AnalyzeCmd runs the accentual responsion analysis.
type AnalyzeCmd struct {
	Targets   []string `arg:"" optional:"" help:"Play infixes (v, nu, ...) and/or canticum labels (v01, ach03); default: every play in the corpus."`
	Details   bool     `help:"Print per-match listings after the summary."`
	Save      bool     `help:"Record the run in the run store."`
	Store     string   `help:"Run store path." default:"responsion.db" type:"path"`
	Jobs      int      `help:"Worker bound for the significance tests." default:"0"`
	Reference float64  `help:"Reference proportion for the binomial test." default:"0.097"`
	NoColor   bool     `help:"Disable ANSI colors in the summary."`
}

func (c *AnalyzeCmd) Run() error {
	src, err := openCorpus()
	if err != nil {
		return err
	}
	plays, err := loadTargets(src, c.Targets)
	if err != nil {
		return err
	}

	res := responsion.Analyze(plays...)
	sum, err := report.Summarize(res, stats.NewTester(c.Reference), c.Jobs)
	if err != nil {
		return err
	}
	sum.Render(os.Stdout, !c.NoColor)
	if c.Details {
		report.RenderDetails(os.Stdout, res)
	}

	if !c.Save {
		return nil
	}
	fp, err := fingerprintPlays(src, res)
	if err != nil {
		return err
	}
	st, err := store.Open(c.Store)
	if err != nil {
		return err
	}
	defer st.Close()
	run, err := st.SaveRun(context.Background(), targetLabel(c.Targets), fp, res, sum)
	if err != nil {
		return err
	}
	fmt.Printf("Saved run %s\n", run.ID)
	return nil
}

// BarysCmd runs the barys/oxys analysis alone.
type BarysCmd struct {
	Targets []string `arg:"" optional:"" help:"Play infixes and/or canticum labels; default: every play in the corpus."`
}

func (c *BarysCmd) Run() error {
	src, err := openCorpus()
	if err != nil {
		return err
	}
	plays, err := loadTargets(src, c.Targets)
	if err != nil {
		return err
	}

	res := responsion.Analyze(plays...)
	pot := res.PotentialsTotal()
	fmt.Printf("Barys matches: %d/%d = %.1f%%\n",
		res.MatchedBarys(), pot.Barys, percent(res.MatchedBarys(), pot.Barys))
	fmt.Printf("Oxys matches:  %d/%d = %.1f%%\n",
		res.MatchedOxys(), pot.Oxys, percent(res.MatchedOxys(), pot.Oxys))
	fmt.Println()
	report.RenderBarysDetails(os.Stdout, res)
	return nil
}

// ContourCmd prints combined contours and compatibility ratios per line of
// one canticum.
type ContourCmd struct {
	Canticum string `arg:"" help:"Canticum label, e.g. v01."`
}

func (c *ContourCmd) Run() error {
	src, err := openCorpus()
	if err != nil {
		return err
	}
	inf, err := corpus.InfixOf(c.Canticum)
	if err != nil {
		return err
	}
	p, err := corpus.LoadPlay(src, inf)
	if err != nil {
		return err
	}
	cant, err := p.Canticum(c.Canticum)
	if err != nil {
		return err
	}
	cc, err := contour.AnalyzeCanticum(cant)
	if err != nil {
		return err
	}
	report.RenderContours(os.Stdout, cc)
	return nil
}

// CompileCmd compiles a play's scan file to its compiled form.
type CompileCmd struct {
	Infix string `arg:"" help:"Play infix (ach, eq, nu, ...)."`
	Out   string `help:"Output path; default: the compiled file beside the scan file." type:"path"`
}

func (c *CompileCmd) Run() error {
	if !corpus.IsInfix(c.Infix) {
		return errors.NewNotFound("play", c.Infix)
	}
	scanPath := filepath.Join(CLI.Corpus, corpus.ScanFile(c.Infix))
	src, err := os.ReadFile(scanPath)
	if err != nil {
		return errors.NewIO("read", scanPath, err)
	}

	compiled, err := compiler.Compile(corpus.ScanFile(c.Infix), src)
	if err != nil {
		return err
	}

	outPath := c.Out
	if outPath == "" {
		outPath = filepath.Join(CLI.Corpus, corpus.CompiledFile(c.Infix))
	}
	if err := os.WriteFile(outPath, compiled, 0o644); err != nil {
		return errors.NewIO("write", outPath, err)
	}
	fmt.Printf("Compiled %s -> %s\n", scanPath, outPath)
	return nil
}

// MetreCmd prints metre patterns with accent annotations and restored text.
type MetreCmd struct {
	Canticum string `arg:"" help:"Canticum label, e.g. v01."`
}

func (c *MetreCmd) Run() error {
	src, err := openCorpus()
	if err != nil {
		return err
	}
	inf, err := corpus.InfixOf(c.Canticum)
	if err != nil {
		return err
	}
	p, err := corpus.LoadPlay(src, inf)
	if err != nil {
		return err
	}
	cant, err := p.Canticum(c.Canticum)
	if err != nil {
		return err
	}
	return report.RenderCanticum(os.Stdout, cant)
}

// CanticaCmd lists responsion ids with strophe shapes and line counts.
type CanticaCmd struct {
	Infix string `arg:"" optional:"" help:"Restrict to one play."`
}

func (c *CanticaCmd) Run() error {
	src, err := openCorpus()
	if err != nil {
		return err
	}
	var plays []*verse.Play
	if c.Infix != "" {
		p, err := corpus.LoadPlay(src, c.Infix)
		if err != nil {
			return err
		}
		plays = []*verse.Play{p}
	} else if plays, err = corpus.LoadAll(src); err != nil {
		return err
	}
	report.RenderCantica(os.Stdout, plays...)
	return nil
}

// BaselineCmd reruns the analysis over line-shuffled copies of the corpus,
// storing each iteration so chance-level match rates accumulate in the run
// store.
type BaselineCmd struct {
	Iterations int     `help:"Shuffled runs to perform." default:"10"`
	Seed       int64   `help:"Base random seed; iteration i uses seed+i." default:"1"`
	Store      string  `help:"Run store path." default:"responsion.db" type:"path"`
	Jobs       int     `help:"Worker bound for the significance tests." default:"0"`
	Reference  float64 `help:"Reference proportion for the binomial test." default:"0.097"`
}

func (c *BaselineCmd) Run() error {
	src, err := openCorpus()
	if err != nil {
		return err
	}
	plays, err := corpus.LoadAll(src)
	if err != nil {
		return err
	}

	st, err := store.Open(c.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	tester := stats.NewTester(c.Reference)
	for i := 0; i < c.Iterations; i++ {
		rng := rand.New(rand.NewSource(c.Seed + int64(i)))
		shuffled := make([]*verse.Play, len(plays))
		for j, p := range plays {
			shuffled[j] = corpus.ShuffleLines(p, rng)
		}

		res := responsion.Analyze(shuffled...)
		sum, err := report.Summarize(res, tester, c.Jobs)
		if err != nil {
			return err
		}
		fp, err := fingerprintPlays(src, res)
		if err != nil {
			return err
		}
		label := fmt.Sprintf("baseline-%d", i+1)
		if _, err := st.SaveRun(context.Background(), label, fp, res, sum); err != nil {
			return err
		}
		fmt.Printf("%s: acute+circumflex %d/%d = %.1f%%\n", label,
			sum.MatchedAcuteCircumflex(), sum.UniverseAcuteCircumflex(),
			percent(sum.MatchedAcuteCircumflex(), sum.UniverseAcuteCircumflex()))
	}
	return nil
}

// RunsGroup contains stored-run queries.
type RunsGroup struct {
	List    RunsListCmd    `cmd:"" help:"List stored runs with aggregate counts"`
	Show    RunShowCmd     `cmd:"" help:"Show one run's per-canticum records"`
	History RunsHistoryCmd `cmd:"" help:"Show one canticum's outcomes across runs"`
}

// RunsListCmd lists stored runs.
type RunsListCmd struct {
	Store string `help:"Run store path." default:"responsion.db" type:"path"`
}

func (c *RunsListCmd) Run() error {
	st, err := store.Open(c.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	sums, err := st.Summaries(context.Background())
	if err != nil {
		return err
	}
	for _, rs := range sums {
		fmt.Printf("%s  %s  %-16s cantica=%d significant=%d acute+circ=%d/%d\n",
			rs.Run.ID, rs.Run.CreatedAt.Format("2006-01-02 15:04:05"), rs.Run.Corpus,
			rs.Cantica, rs.Significant,
			rs.Acute.Matched+rs.Circumflex.Matched,
			rs.Acute.Universe+rs.Circumflex.Universe)
	}
	return nil
}

// RunShowCmd shows one run's records.
type RunShowCmd struct {
	RunID string `arg:"" help:"Run id."`
	Store string `help:"Run store path." default:"responsion.db" type:"path"`
}

func (c *RunShowCmd) Run() error {
	st, err := store.Open(c.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.RunResults(context.Background(), c.RunID)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		marker := " "
		if rec.Significant {
			marker = "*"
		}
		fmt.Printf("%s %-8s acute %d/%d  grave %d/%d  circ %d/%d  barys %d  oxys %d  p=%.4f\n",
			marker, rec.Responsion,
			rec.Acute.Matched, rec.Acute.Universe,
			rec.Grave.Matched, rec.Grave.Universe,
			rec.Circumflex.Matched, rec.Circumflex.Universe,
			rec.Barys, rec.Oxys, rec.P)
	}
	return nil
}

// RunsHistoryCmd shows one canticum's outcomes across runs.
type RunsHistoryCmd struct {
	Responsion string `arg:"" help:"Canticum label, e.g. v01."`
	Store      string `help:"Run store path." default:"responsion.db" type:"path"`
}

func (c *RunsHistoryCmd) Run() error {
	st, err := store.Open(c.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.History(context.Background(), c.Responsion)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s  %-16s acute+circ %d/%d  p=%.4f significant=%v\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Corpus,
			e.Acute.Matched+e.Circumflex.Matched,
			e.Acute.Universe+e.Circumflex.Universe,
			e.P, e.Significant)
	}
	return nil
}

// WebCmd starts the dashboard server.
type WebCmd struct {
	Host      string  `help:"Bind address." default:""`
	Port      int     `help:"Listen port." default:"8591"`
	Jobs      int     `help:"Worker bound for the significance tests." default:"0"`
	Reference float64 `help:"Reference proportion for the binomial test." default:"0.097"`
}

func (c *WebCmd) Run() error {
	src, err := openCorpus()
	if err != nil {
		return err
	}
	plays, err := corpus.LoadAll(src)
	if err != nil {
		return err
	}
	cfg := web.Config{Host: c.Host, Port: c.Port, Reference: c.Reference, Workers: c.Jobs}
	return web.New(plays, cfg).Start(cfg)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("responsion %s\n", version)
	return nil
}

func logLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "info":
		return logging.LevelInfo
	case "error":
		return logging.LevelError
	}
	return logging.LevelWarn
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("responsion"),
		kong.Description("Accentual responsion analysis for Aristophanic cantica"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	format := logging.FormatText
	if CLI.LogJSON {
		format = logging.FormatJSON
	}
	logging.InitLogger(logLevel(CLI.LogLevel), format)

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
