package compiler

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// scanLexer tokenizes bracket-notation scansion. Multi-character openers
// must come before the single-character ones, and the macron markers before
// the bare parenthesis and underscore fallbacks, because the first matching
// rule wins.
var scanLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "MacronOpen", Pattern: `\(_`},
	{Name: "MacronClose", Pattern: `_\)`},
	{Name: "HeavyAnceps", Pattern: `\[#`},
	{Name: "LightAnceps", Pattern: `\{#`},
	{Name: "HeavyContraction", Pattern: `\[[%€]`},
	{Name: "LightResolution", Pattern: `\{€`},
	{Name: "Heavy", Pattern: `\[`},
	{Name: "Light", Pattern: `\{`},
	{Name: "Close", Pattern: `[\]}]`},
	{Name: "Stray", Pattern: `[#€]`},
	{Name: "Text", Pattern: `[^\[\]{}#€(_]+`},
	{Name: "Plain", Pattern: `[(_]`},
})

// scanContent is the participle grammar for the content of one <l> element:
// a run of bracketed syllables and loose text. Stray marker characters have
// no production, so they surface as parse errors.
//
//nolint:govet // participle grammar tags are not standard struct tags
type scanContent struct {
	Nodes []scanNode `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type scanNode struct {
	Syll *syllNode `  @@`
	Text *textRun  `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type syllNode struct {
	Opener string    `@(HeavyAnceps | LightAnceps | HeavyContraction | LightResolution | Heavy | Light)`
	Body   []textRun `@@*`
	End    string    `@Close`
}

// textRun is one piece of syllable or inter-syllable text. Macron markers
// are captured separately so rendering can drop them while keeping the
// vowel they wrapped.
//
//nolint:govet // participle grammar tags are not standard struct tags
type textRun struct {
	Text   *string `  @(Text | Plain)`
	Macron *string `| @(MacronOpen | MacronClose)`
}

var scanParser = participle.MustBuild[scanContent](
	participle.Lexer(scanLexer),
)

// syllOpenTag maps a bracket opener to its compiled element.
func syllOpenTag(opener string) string {
	switch opener {
	case "[#":
		return `<syll weight="heavy" anceps="True">`
	case "{#":
		return `<syll weight="light" anceps="True">`
	case "[%", "[€":
		return `<syll weight="heavy" contraction="True">`
	case "{€":
		return `<syll weight="light" resolution="True">`
	case "[":
		return `<syll weight="heavy">`
	default:
		return `<syll weight="light">`
	}
}

// compileContent parses one line's bracket notation and renders it as
// syllable markup. Either closer ends either opener, as in the notation
// itself; macron markers vanish and their inner text stays.
func compileContent(content string) (string, error) {
	parsed, err := scanParser.ParseString("", content)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, node := range parsed.Nodes {
		switch {
		case node.Syll != nil:
			sb.WriteString(syllOpenTag(node.Syll.Opener))
			for _, t := range node.Syll.Body {
				if t.Text != nil {
					sb.WriteString(*t.Text)
				}
			}
			sb.WriteString("</syll>")
		case node.Text != nil && node.Text.Text != nil:
			sb.WriteString(*node.Text.Text)
		}
	}
	return sb.String(), nil
}
