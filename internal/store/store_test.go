package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/strophic/responsion/core/errors"
	"github.com/strophic/responsion/core/responsion"
	"github.com/strophic/responsion/core/stats"
	"github.com/strophic/responsion/core/verse"
	"github.com/strophic/responsion/internal/report"
)

func testPlay(t *testing.T) *verse.Play {
	t.Helper()
	line := func(n string, sylls ...verse.Syllable) verse.Line {
		return verse.Line{N: n, Metre: "2 cr", Sylls: sylls}
	}
	syll := func(text string, w verse.Weight) verse.Syllable {
		return verse.Syllable{Text: text, Weight: w}
	}
	return &verse.Play{
		Infix: "v",
		Strophes: []verse.Strophe{
			{
				Kind:       verse.KindStrophe,
				Responsion: "v01",
				Lines:      []verse.Line{line("526", syll("νά", verse.Heavy), syll("τε", verse.Light))},
			},
			{
				Kind:       verse.KindAntistrophe,
				Responsion: "v01",
				Lines:      []verse.Line{line("631", syll("κοί", verse.Heavy), syll("ος", verse.Light))},
			},
			{
				Kind:       verse.KindStrophe,
				Responsion: "v02",
				Lines:      []verse.Line{line("700", syll("τίς", verse.Heavy))},
			},
		},
	}
}

func analyzed(t *testing.T) (*responsion.Result, *report.Summary) {
	t.Helper()
	res := responsion.Analyze(testPlay(t))
	sum, err := report.Summarize(res, stats.NewTester(0.097), 1)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	return res, sum
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("alpha"), []byte("beta"))
	b := Fingerprint([]byte("alpha"), []byte("beta"))
	if a != b {
		t.Errorf("fingerprint not deterministic: %s vs %s", a, b)
	}
	if c := Fingerprint([]byte("alpha")); c == a {
		t.Error("different documents share a fingerprint")
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(a))
	}
}

func TestSaveRunAndRunResults(t *testing.T) {
	s := openStore(t)
	res, sum := analyzed(t)
	ctx := context.Background()

	run, err := s.SaveRun(ctx, "v", Fingerprint([]byte("doc")), res, sum)
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	if run.ID == "" {
		t.Fatal("run has no id")
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID || runs[0].Corpus != "v" {
		t.Fatalf("runs = %+v, want the saved run", runs)
	}

	recs, err := s.RunResults(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunResults() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[0].Responsion != "v01" || recs[1].Responsion != "v02" {
		t.Fatalf("record order = %s, %s", recs[0].Responsion, recs[1].Responsion)
	}

	// νά vs κοί matches at ordinal 1: one record, two entries, out of the
	// canticum's two acutes.
	v01 := recs[0]
	if v01.Acute.Matched != 2 || v01.Acute.Universe != 2 {
		t.Errorf("v01 acute = %+v, want 2/2", v01.Acute)
	}
	if v01.Grave.Matched != 0 || v01.Circumflex.Matched != 0 {
		t.Errorf("v01 grave/circumflex = %+v/%+v, want zero", v01.Grave, v01.Circumflex)
	}
	if !v01.Applicable {
		t.Error("v01 test should be applicable")
	}

	// v02 has one strophe: skipped, inapplicable, zero matched.
	v02 := recs[1]
	if v02.Applicable {
		t.Error("lone-strophe canticum recorded as applicable")
	}
	if v02.Acute.Matched != 0 {
		t.Errorf("v02 acute matched = %d, want 0", v02.Acute.Matched)
	}
}

func TestRunResultsUnknownRun(t *testing.T) {
	s := openStore(t)
	_, err := s.RunResults(context.Background(), "no-such-run")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestHistoryAcrossRuns(t *testing.T) {
	s := openStore(t)
	res, sum := analyzed(t)
	ctx := context.Background()

	if _, err := s.SaveRun(ctx, "run-a", "fp1", res, sum); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	if _, err := s.SaveRun(ctx, "run-b", "fp2", res, sum); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	entries, err := s.History(ctx, "v01")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("history entries = %d, want 2", len(entries))
	}
	if entries[0].Corpus != "run-a" || entries[1].Corpus != "run-b" {
		t.Errorf("history order = %s, %s, want oldest first",
			entries[0].Corpus, entries[1].Corpus)
	}

	empty, err := s.History(ctx, "v99")
	if err != nil {
		t.Fatalf("History(v99) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown canticum history = %d entries, want none", len(empty))
	}
}

func TestSummaries(t *testing.T) {
	s := openStore(t)
	res, sum := analyzed(t)
	ctx := context.Background()

	if _, err := s.SaveRun(ctx, "v", "fp", res, sum); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	sums, err := s.Summaries(ctx)
	if err != nil {
		t.Fatalf("Summaries() error = %v", err)
	}
	if len(sums) != 1 {
		t.Fatalf("summaries = %d, want 1", len(sums))
	}
	rs := sums[0]
	if rs.Cantica != 2 {
		t.Errorf("cantica = %d, want 2", rs.Cantica)
	}
	if rs.Acute.Matched != 2 {
		t.Errorf("acute matched = %d, want 2", rs.Acute.Matched)
	}
	// v01 holds two of the play's acutes, v02 the third.
	if rs.Acute.Universe != 3 {
		t.Errorf("acute universe = %d, want 3", rs.Acute.Universe)
	}
}
