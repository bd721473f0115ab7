package contour

import (
	"reflect"
	"testing"

	"github.com/strophic/responsion/core/errors"
	"github.com/strophic/responsion/core/verse"
)

func cell(m Mark, cs ...Contour) Cell {
	return Cell{Contours: cs, Mark: m}
}

func TestCellEffective(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want Contour
	}{
		{"single keeps its contour", cell(MarkGrave, UpGrave), UpGrave},
		{"two rises keep the direction", cell(MarkNone, Up, UpGrave), Up},
		{"two falls keep the direction", cell(MarkAcute, Down, DownAccent), Down},
		{"rise beats neutral", cell(MarkNone, Up, Neutral), Up},
		{"fall beats neutral", cell(MarkNone, Neutral, Down), Down},
		{"opposed directions cancel", cell(MarkNone, Up, Down), Neutral},
		{"two neutrals stay neutral", cell(MarkNone, Neutral, Neutral), Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.Effective(); got != tt.want {
				t.Errorf("Effective() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want Contour
	}{
		{
			name: "all circumflex on the main accent",
			pos:  Position{cell(MarkCircumflex, DownAccent), cell(MarkCircumflex, DownAccent)},
			want: CircDown,
		},
		{
			name: "all circumflex at word ends",
			pos:  Position{cell(MarkCircumflex, Neutral), cell(MarkCircumflex, Neutral)},
			want: CircFlat,
		},
		{
			name: "main accent fall in every strophe",
			pos:  Position{cell(MarkAcute, DownAccent), cell(MarkAcute, DownAccent)},
			want: DownAccent,
		},
		{
			name: "main accent fall against a rise",
			pos:  Position{cell(MarkAcute, DownAccent), cell(MarkNone, Up)},
			want: RepeatAccent,
		},
		{
			name: "main accent fall with a plain fall",
			pos:  Position{cell(MarkAcute, DownAccent), cell(MarkNone, Down)},
			want: Down,
		},
		{
			name: "plain fall against a rise",
			pos:  Position{cell(MarkNone, Down), cell(MarkNone, Up)},
			want: Repeat,
		},
		{
			name: "plain fall with a word end",
			pos:  Position{cell(MarkNone, Down), cell(MarkNone, Neutral)},
			want: Down,
		},
		{
			name: "grave rise wins over plain rise",
			pos:  Position{cell(MarkGrave, UpGrave), cell(MarkNone, Up)},
			want: UpGrave,
		},
		{
			name: "rise with a word end",
			pos:  Position{cell(MarkNone, Up), cell(MarkNone, Neutral)},
			want: Up,
		},
		{
			name: "word ends everywhere",
			pos:  Position{cell(MarkNone, Neutral), cell(MarkNone, Neutral)},
			want: Neutral,
		},
		{
			name: "cancelled pair leaves the fall unopposed",
			pos:  Position{cell(MarkNone, Up, Down), cell(MarkAcute, DownAccent)},
			want: Down,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Combine(tt.pos); got != tt.want {
				t.Errorf("Combine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatchStatus(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want Status
	}{
		{
			name: "all circumflex outranks the contours",
			pos:  Position{cell(MarkCircumflex, Neutral), cell(MarkCircumflex, DownAccent)},
			want: StatusCircumflex,
		},
		{
			name: "all main accent falls",
			pos:  Position{cell(MarkAcute, DownAccent), cell(MarkAcute, DownAccent)},
			want: StatusM1,
		},
		{
			name: "main accent fall with plain fall",
			pos:  Position{cell(MarkAcute, DownAccent), cell(MarkNone, Down)},
			want: StatusM2,
		},
		{
			name: "all plain falls grade as downward motion",
			pos:  Position{cell(MarkNone, Down), cell(MarkNone, Down)},
			want: StatusM2,
		},
		{
			name: "all rises",
			pos:  Position{cell(MarkNone, Up), cell(MarkGrave, UpGrave)},
			want: StatusM3,
		},
		{
			name: "fall with word end",
			pos:  Position{cell(MarkNone, Down), cell(MarkNone, Neutral)},
			want: StatusM4,
		},
		{
			name: "rise with word end",
			pos:  Position{cell(MarkNone, Up), cell(MarkNone, Neutral)},
			want: StatusM4,
		},
		{
			name: "word ends everywhere",
			pos:  Position{cell(MarkNone, Neutral), cell(MarkNone, Neutral)},
			want: StatusM4,
		},
		{
			name: "main accent fall against rise",
			pos:  Position{cell(MarkAcute, DownAccent), cell(MarkNone, Up)},
			want: StatusC1,
		},
		{
			name: "plain rise against fall",
			pos:  Position{cell(MarkNone, Up), cell(MarkNone, Down)},
			want: StatusC2,
		},
		{
			name: "grave rise against fall",
			pos:  Position{cell(MarkGrave, UpGrave), cell(MarkNone, Down)},
			want: StatusC3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchStatus(tt.pos); got != tt.want {
				t.Errorf("MatchStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusPredicates(t *testing.T) {
	if !StatusM1.IsMatch() || !StatusCircumflex.IsMatch() {
		t.Error("M1 and CIRC should be matches")
	}
	if StatusM2.IsMatch() {
		t.Error("M2 should not be a match")
	}
	if !StatusC1.IsClash() {
		t.Error("C1 should be a clash")
	}
	if StatusC2.IsClash() {
		t.Error("C2 should not be a clash")
	}
	if !Repeat.IsRepeat() || !RepeatAccent.IsRepeat() {
		t.Error("= and =-A should be repeats")
	}
	if Down.IsRepeat() {
		t.Error("DN should not be a repeat")
	}
}

func TestCompatibility(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want float64
	}{
		{
			name: "split directions",
			pos:  Position{cell(MarkNone, Up), cell(MarkNone, Down)},
			want: 0.5,
		},
		{
			name: "word end keeps full compatibility",
			pos:  Position{cell(MarkNone, Up), cell(MarkNone, Neutral)},
			want: 1.0,
		},
		{
			name: "two falls against one rise",
			pos:  Position{cell(MarkAcute, DownAccent), cell(MarkNone, Down), cell(MarkNone, Up)},
			want: 2.0 / 3.0,
		},
		{
			name: "all resolved scores the sub-syllables",
			pos:  Position{cell(MarkNone, Up, Down), cell(MarkNone, Up, Down)},
			want: 0.5,
		},
		{
			name: "all resolved with neutral sub-syllable",
			pos:  Position{cell(MarkNone, Up, Up), cell(MarkNone, Up, Neutral)},
			want: 1.0,
		},
		{
			name: "mixed resolution collapses the pair",
			pos:  Position{cell(MarkNone, Up, Neutral), cell(MarkNone, Up)},
			want: 1.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compatibility(tt.pos); got != tt.want {
				t.Errorf("Compatibility() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPositions(t *testing.T) {
	a := mkLine("563", "do",
		res("ἀ", ""),
		res("νά", " "),
	)
	b := mkLine("595", "do",
		syll("νῦν", " ", verse.Heavy),
	)
	got, err := Positions(a, b)
	if err != nil {
		t.Fatalf("Positions() error = %v", err)
	}
	want := []Position{{
		Cell{Contours: []Contour{Up, Neutral}, Mark: MarkAcute},
		Cell{Contours: []Contour{Neutral}, Mark: MarkCircumflex},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Positions() = %v, want %v", got, want)
	}
}

func TestPositionsNotResponding(t *testing.T) {
	a := mkLine("563", "do", syll("νά", " ", verse.Heavy))
	b := mkLine("595", "do", syll("τε", " ", verse.Light))
	_, err := Positions(a, b)
	if err == nil {
		t.Fatal("expected a responsion error")
	}
	if !errors.Is(err, errors.ErrNotResponding) {
		t.Errorf("error = %v, want ErrNotResponding", err)
	}
}

func TestCombinedSequence(t *testing.T) {
	positions, err := Positions(demoStrophe(), demoAntistrophe())
	if err != nil {
		t.Fatalf("Positions() error = %v", err)
	}
	got := make([]Contour, len(positions))
	for i, pos := range positions {
		got[i] = Combine(pos)
	}
	want := []Contour{
		CircDown, Up, Up, RepeatAccent, Up,
		RepeatAccent, Down, Neutral, UpGrave, UpGrave,
		RepeatAccent, Up, RepeatAccent, Down, Neutral,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("combined contours = %v, want %v", got, want)
	}
}

func TestAnalyzeCanticum(t *testing.T) {
	c := &verse.Canticum{
		Responsion: "ach01",
		Strophes: []*verse.Strophe{
			{Kind: verse.KindStrophe, Responsion: "ach01", Lines: []verse.Line{*demoStrophe()}},
			{Kind: verse.KindAntistrophe, Responsion: "ach01", Lines: []verse.Line{*demoAntistrophe()}},
		},
	}
	got, err := AnalyzeCanticum(c)
	if err != nil {
		t.Fatalf("AnalyzeCanticum() error = %v", err)
	}
	if got.Responsion != "ach01" {
		t.Errorf("Responsion = %q, want ach01", got.Responsion)
	}
	if got.Positions != 15 {
		t.Errorf("Positions = %d, want 15", got.Positions)
	}
	if got.Matches != 1 {
		t.Errorf("Matches = %d, want 1", got.Matches)
	}
	if got.Repeats != 4 {
		t.Errorf("Repeats = %d, want 4", got.Repeats)
	}
	if got.Clashes != 4 {
		t.Errorf("Clashes = %d, want 4", got.Clashes)
	}
	if len(got.Lines) != 1 {
		t.Fatalf("len(Lines) = %d, want 1", len(got.Lines))
	}
	lc := got.Lines[0]
	if !reflect.DeepEqual(lc.Refs, []string{"204", "219"}) {
		t.Errorf("Refs = %v, want [204 219]", lc.Refs)
	}
	if lc.Statuses[0] != StatusCircumflex {
		t.Errorf("Statuses[0] = %q, want CIRC", lc.Statuses[0])
	}
	if lc.Statuses[6] != StatusM2 {
		t.Errorf("Statuses[6] = %q, want M2", lc.Statuses[6])
	}
	if lc.Ratios[0] != 1.0 {
		t.Errorf("Ratios[0] = %v, want 1.0", lc.Ratios[0])
	}
	if lc.Ratios[3] != 0.5 {
		t.Errorf("Ratios[3] = %v, want 0.5", lc.Ratios[3])
	}
}

func TestAnalyzeCanticumSingleStrophe(t *testing.T) {
	c := &verse.Canticum{
		Responsion: "nu03",
		Strophes: []*verse.Strophe{
			{Kind: verse.KindStrophe, Responsion: "nu03", Lines: []verse.Line{*demoStrophe()}},
		},
	}
	if _, err := AnalyzeCanticum(c); err == nil {
		t.Fatal("expected an error for a single strophe")
	}
}

func TestAnalyzeCanticumLineCountMismatch(t *testing.T) {
	c := &verse.Canticum{
		Responsion: "nu04",
		Strophes: []*verse.Strophe{
			{Kind: verse.KindStrophe, Responsion: "nu04", Lines: []verse.Line{*demoStrophe(), *demoStrophe()}},
			{Kind: verse.KindAntistrophe, Responsion: "nu04", Lines: []verse.Line{*demoAntistrophe()}},
		},
	}
	_, err := AnalyzeCanticum(c)
	if err == nil {
		t.Fatal("expected a mismatch error")
	}
	if !errors.Is(err, errors.ErrMismatch) {
		t.Errorf("error = %v, want ErrMismatch", err)
	}
}
