package verse

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/strophic/responsion/core/errors"
)

// Ref is a parsed edition line reference. Lyric lines are often numbered as
// spans of the spoken-verse numeration ("208-209") and may carry subdivision
// letters ("1019a"). Refs order report output; correspondence decisions
// never depend on them.
type Ref struct {
	// Start is the first line number.
	Start int `json:"start"`

	// StartSuffix is the subdivision letter of the start ("a" in "1019a").
	StartSuffix string `json:"start_suffix,omitempty"`

	// End is the last line number for spans, 0 otherwise.
	End int `json:"end,omitempty"`

	// EndSuffix is the subdivision letter of the end.
	EndSuffix string `json:"end_suffix,omitempty"`

	// Raw is the reference as written in the edition.
	Raw string `json:"raw,omitempty"`
}

// refGrammar is the participle grammar for edition line references.
// Examples: "301", "1019a", "208-209", "516-518a"
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Start refPart  `@@`
	End   *refPart `( "-" @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type refPart struct {
	Num    int     `@Int`
	Suffix *string `@Suffix?`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Suffix", Pattern: `[a-z]+`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses an edition line reference string.
func ParseRef(s string) (*Ref, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, &errors.ParseError{Format: "line ref", Message: "empty reference"}
	}

	parsed, err := refParser.ParseString("", trimmed)
	if err != nil {
		return nil, &errors.ParseError{Format: "line ref", Line: trimmed, Message: "invalid reference", Err: err}
	}

	ref := &Ref{
		Start: parsed.Start.Num,
		Raw:   trimmed,
	}
	if parsed.Start.Suffix != nil {
		ref.StartSuffix = *parsed.Start.Suffix
	}
	if parsed.End != nil {
		ref.End = parsed.End.Num
		if parsed.End.Suffix != nil {
			ref.EndSuffix = *parsed.End.Suffix
		}
	}
	return ref, nil
}

// String returns the reference as written, or reconstructs it.
func (r *Ref) String() string {
	if r.Raw != "" {
		return r.Raw
	}

	var sb strings.Builder
	sb.WriteString(strconv.Itoa(r.Start))
	sb.WriteString(r.StartSuffix)
	if r.End > 0 {
		sb.WriteString("-")
		sb.WriteString(strconv.Itoa(r.End))
		sb.WriteString(r.EndSuffix)
	}
	return sb.String()
}

// IsSpan returns true if the reference covers more than one numbered line.
func (r *Ref) IsSpan() bool {
	return r.End > 0 && r.End != r.Start
}

// Less orders references by start number, subdivision suffixes breaking
// ties ("1019" before "1019a" before "1019b").
func (r *Ref) Less(other *Ref) bool {
	if r.Start != other.Start {
		return r.Start < other.Start
	}
	return r.StartSuffix < other.StartSuffix
}
