package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/strophic/responsion/core/contour"
	"github.com/strophic/responsion/core/responsion"
	"github.com/strophic/responsion/core/verse"
)

// resolvedPlay pairs lines whose first unit is a resolved pair with an acute
// on the first sub-syllable, with an anceps and a circumflex-matched heavy
// further in.
func resolvedPlay() *verse.Play {
	return &verse.Play{
		Infix: "av",
		Strophes: []verse.Strophe{
			{
				Kind:       verse.KindStrophe,
				Responsion: "av02",
				Lines: []verse.Line{{
					N: "301",
					Sylls: []verse.Syllable{
						{Text: "τί", Weight: verse.Light, Resolution: true},
						{Text: "να", Weight: verse.Light, Resolution: true},
						{Text: "δή", Weight: verse.Heavy},
						{Text: "ποτ᾽ ", Weight: verse.Light, Anceps: true},
						{Text: "ἆ", Weight: verse.Heavy},
					},
				}},
			},
			{
				Kind:       verse.KindAntistrophe,
				Responsion: "av02",
				Lines: []verse.Line{{
					N: "312",
					Sylls: []verse.Syllable{
						{Text: "ά", Weight: verse.Light, Resolution: true},
						{Text: "τι", Weight: verse.Light, Resolution: true},
						{Text: "γῆ", Weight: verse.Heavy},
						{Text: "δε ", Weight: verse.Light, Anceps: true},
						{Text: "νῦν", Weight: verse.Heavy},
					},
				}},
			},
		},
	}
}

func TestSurfacePattern(t *testing.T) {
	tests := []struct {
		name string
		line verse.Line
		want string
	}{
		{
			name: "resolved pair and anceps",
			line: resolvedPlay().Strophes[0].Lines[0],
			want: "(uu)-x-",
		},
		{
			name: "lone resolution, contraction, brevis in longo",
			line: verse.Line{N: "88", Sylls: []verse.Syllable{
				{Text: "πο", Weight: verse.Light, Resolution: true},
				{Text: "λέ", Weight: verse.Heavy, Contraction: true},
				{Text: "μα", Weight: verse.Light, BrevisInLongo: true},
			}},
			want: "u-u",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SurfacePattern(&tt.line); got != tt.want {
				t.Errorf("SurfacePattern = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnnotatedPattern(t *testing.T) {
	p := resolvedPlay()
	m, err := responsion.MatchStrophes(&p.Strophes[0], &p.Strophes[1])
	if err != nil {
		t.Fatalf("MatchStrophes: %v", err)
	}

	if got := AnnotatedPattern(&p.Strophes[0].Lines[0], m); got != "(u'u)-x-^" {
		t.Errorf("strophe pattern = %q, want %q", got, "(u'u)-x-^")
	}
	if got := AnnotatedPattern(&p.Strophes[1].Lines[0], m); got != "(u'u)-x-^" {
		t.Errorf("antistrophe pattern = %q, want %q", got, "(u'u)-x-^")
	}
	if got := AnnotatedPattern(&p.Strophes[0].Lines[0], nil); got != "(uu)-x-" {
		t.Errorf("nil matches pattern = %q, want %q", got, "(uu)-x-")
	}
}

func TestRenderCanticum(t *testing.T) {
	p := pairPlay()
	c, err := p.Canticum("v01")
	if err != nil {
		t.Fatalf("Canticum: %v", err)
	}

	var buf bytes.Buffer
	if err := RenderCanticum(&buf, c); err != nil {
		t.Fatalf("RenderCanticum: %v", err)
	}

	want := "strophe v01:\n" +
		"204: -'-^u'u [- - u u]\n" +
		"τίς ἆρά δε\n" +
		"\n" +
		"antistrophe v01:\n" +
		"219: -'-^u'u [- - u u]\n" +
		"ποί νῦντό γε\n"
	if buf.String() != want {
		t.Errorf("canticum mismatch:\ngot:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestRenderCanticumNotResponding(t *testing.T) {
	p := pairPlay()
	// Break responsion by flipping one weight.
	p.Strophes[1].Lines[0].Sylls[0].Weight = verse.Light

	c, err := p.Canticum("v01")
	if err != nil {
		t.Fatalf("Canticum: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderCanticum(&buf, c); err == nil {
		t.Fatal("RenderCanticum succeeded on non-responding lines")
	}
	if buf.Len() != 0 {
		t.Errorf("partial output written: %q", buf.String())
	}
}

func TestRenderCantica(t *testing.T) {
	var buf bytes.Buffer
	RenderCantica(&buf, pairPlay(), lonePlay())

	want := "v01: strophe + antistrophe, 1 lines (204-219)\n" +
		"ach03: strophe, 1 lines (665)\n"
	if buf.String() != want {
		t.Errorf("cantica listing = %q, want %q", buf.String(), want)
	}
}

// TestRenderCanticaEditionOrder checks that the listing follows parsed line
// references, not the order ids first appear in the play and not a lexical
// sort of the numbers.
func TestRenderCanticaEditionOrder(t *testing.T) {
	syll := []verse.Syllable{{Text: "δό", Weight: verse.Light}}
	p := &verse.Play{
		Infix: "av",
		Strophes: []verse.Strophe{
			{Kind: verse.KindStrophe, Responsion: "av01", Lines: []verse.Line{{N: "1019a", Sylls: syll}}},
			{Kind: verse.KindStrophe, Responsion: "av02", Lines: []verse.Line{{N: "90", Sylls: syll}}},
			{Kind: verse.KindStrophe, Responsion: "av03", Lines: []verse.Line{{N: "1019", Sylls: syll}}},
			{Kind: verse.KindStrophe, Responsion: "av04", Lines: []verse.Line{{N: "208-209", Sylls: syll}}},
		},
	}

	var buf bytes.Buffer
	RenderCantica(&buf, p)

	want := "av02: strophe, 1 lines (90)\n" +
		"av04: strophe, 1 lines (208-209)\n" +
		"av03: strophe, 1 lines (1019)\n" +
		"av01: strophe, 1 lines (1019a)\n"
	if buf.String() != want {
		t.Errorf("edition order = %q, want %q", buf.String(), want)
	}
}

// TestCanticumSpan covers the range rendering across strophes, including a
// final line that is itself numbered as a span.
func TestCanticumSpan(t *testing.T) {
	syll := []verse.Syllable{{Text: "δό", Weight: verse.Light}}
	c := &verse.Canticum{
		Responsion: "v01",
		Strophes: []*verse.Strophe{
			{Kind: verse.KindStrophe, Responsion: "v01", Lines: []verse.Line{
				{N: "526", Sylls: syll},
				{N: "527", Sylls: syll},
			}},
			{Kind: verse.KindAntistrophe, Responsion: "v01", Lines: []verse.Line{
				{N: "631", Sylls: syll},
				{N: "632-633", Sylls: syll},
			}},
		},
	}
	if got := canticumSpan(c); got != "526-633" {
		t.Errorf("canticumSpan = %q, want %q", got, "526-633")
	}

	single := &verse.Canticum{
		Responsion: "ach03",
		Strophes: []*verse.Strophe{
			{Kind: verse.KindStrophe, Responsion: "ach03", Lines: []verse.Line{{N: "665", Sylls: syll}}},
		},
	}
	if got := canticumSpan(single); got != "665" {
		t.Errorf("canticumSpan = %q, want %q", got, "665")
	}

	unnumbered := &verse.Canticum{
		Responsion: "x01",
		Strophes: []*verse.Strophe{
			{Kind: verse.KindStrophe, Responsion: "x01", Lines: []verse.Line{{N: "", Sylls: syll}}},
		},
	}
	if got := canticumSpan(unnumbered); got != "" {
		t.Errorf("canticumSpan on unnumbered line = %q, want empty", got)
	}
}

func TestRenderContours(t *testing.T) {
	p := pairPlay()
	c, err := p.Canticum("v01")
	if err != nil {
		t.Fatalf("Canticum: %v", err)
	}
	cc, err := contour.AnalyzeCanticum(c)
	if err != nil {
		t.Fatalf("AnalyzeCanticum: %v", err)
	}

	var buf bytes.Buffer
	RenderContours(&buf, cc)
	out := buf.String()

	if !strings.HasPrefix(out, "Canticum v01: 4 positions, ") {
		t.Errorf("header missing:\n%q", out)
	}
	if !strings.Contains(out, "\n204 ~ 219\n") {
		t.Errorf("line tuple header missing:\n%q", out)
	}
	if !strings.Contains(out, "\n  1  ") || !strings.Contains(out, "\n  4  ") {
		t.Errorf("numbered position rows missing:\n%q", out)
	}
}
