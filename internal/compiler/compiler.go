// Package compiler turns scanned plays into compiled syllable markup. Scan
// documents carry bracket-notation scansion inside <l> elements ("[Τῇ]{δε }"
// and so on); compiling replaces the notation with <syll> elements carrying
// weight, anceps, contraction and resolution attributes, marks final brevis
// in longo, and normalizes <l> attribute order so output is stable.
//
// The pipeline works on the document text rather than a parsed tree: scan
// files are hand-edited and often not well-formed XML until compiled, and
// editors care about keeping their formatting intact.
package compiler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/strophic/responsion/core/errors"
)

var (
	skippedLineRE    = regexp.MustCompile(`(?ms)^[ \t]*<l\s[^>]*\bskip=["']True["'][^>]*>.*?</l>[ \t]*\n?`)
	skippedPartRE    = regexp.MustCompile(`(?s)<skip>.*?</skip>`)
	conjectureRE     = regexp.MustCompile(`(?s)<conjecture[^>]*>(.*?)</conjecture>`)
	conjectureSelfRE = regexp.MustCompile(`<conjecture[^>]*/>`)
	lineRE           = regexp.MustCompile(`(?s)(<l(?:\s[^>]*)?>)(.*?)(</l>)`)
	lineOpenRE       = regexp.MustCompile(`<l(\s[^>]*)?>`)
	syllOpenRE       = regexp.MustCompile(`<syll[^>]*>`)
	attrRE           = regexp.MustCompile(`(\S+?)="(.*?)"`)
	emptyLineRE      = regexp.MustCompile(`^\s*<l[^>]*>\s*</l>\s*$`)
)

// Compile runs the whole pipeline over one scan document. name identifies
// the document in errors (usually the file path). The stages run in order:
// skipped lines and <skip> spans are dropped, <conjecture> wrappers unwrapped,
// bracket notation compiled, brevis in longo marked, <l> attributes ordered,
// and the result validated.
func Compile(name string, src []byte) ([]byte, error) {
	text := string(src)
	text = dropSkippedLines(text)
	text = dropSkippedParts(text)
	text = unwrapConjectures(text)

	text, err := compileLines(name, text)
	if err != nil {
		return nil, err
	}

	text = markBrevis(text)
	text = orderAttributes(text)
	if err := validate(name, text); err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// dropSkippedLines removes <l> elements marked skip="True", including their
// indentation and trailing newline so no blank line is left behind.
func dropSkippedLines(s string) string {
	return skippedLineRE.ReplaceAllString(s, "")
}

// dropSkippedParts removes <skip>...</skip> spans inside lines.
func dropSkippedParts(s string) string {
	return skippedPartRE.ReplaceAllString(s, "")
}

// unwrapConjectures strips <conjecture> tags while keeping their content.
// Nested elements inside syllables are bug prone downstream, so the wrapper
// goes and the reading stays.
func unwrapConjectures(s string) string {
	s = conjectureRE.ReplaceAllString(s, "$1")
	return conjectureSelfRE.ReplaceAllString(s, "")
}

// compileLines compiles the bracket notation inside every <l> element. A
// notation error is reported with the line's n attribute.
func compileLines(name, s string) (string, error) {
	var sb strings.Builder
	last := 0
	for _, m := range lineRE.FindAllStringSubmatchIndex(s, -1) {
		opening := s[m[2]:m[3]]
		content := s[m[4]:m[5]]
		closing := s[m[6]:m[7]]

		compiled, err := compileContent(content)
		if err != nil {
			return "", &errors.ParseError{
				Format:  "scansion",
				Path:    name,
				Line:    attrValue(opening, "n"),
				Message: err.Error(),
				Err:     err,
			}
		}

		sb.WriteString(s[last:m[0]])
		sb.WriteString(opening)
		sb.WriteString(compiled)
		sb.WriteString(closing)
		last = m[1]
	}
	sb.WriteString(s[last:])
	return sb.String(), nil
}

// markBrevis adds brevis_in_longo="True" to the final light, non-resolution
// syllable of each line. Lines in lyric dactyls (metre ending in "da") are
// exempt unless the penultimate syllable is heavy, since a dactylic close
// ends light without any lengthening implied.
func markBrevis(s string) string {
	return replaceLines(s, func(opening, content string) string {
		sylls := syllOpenRE.FindAllStringIndex(content, -1)
		if len(sylls) == 0 {
			return content
		}

		if strings.HasSuffix(attrValue(opening, "metre"), "da") && len(sylls) >= 2 {
			penult := content[sylls[len(sylls)-2][0]:sylls[len(sylls)-2][1]]
			if !strings.Contains(penult, `weight="heavy"`) {
				return content
			}
		}

		span := sylls[len(sylls)-1]
		tag := content[span[0]:span[1]]
		if !strings.Contains(tag, `weight="light"`) || strings.Contains(tag, `resolution="True"`) {
			return content
		}
		marked := tag[:len(tag)-1] + ` brevis_in_longo="True">`
		return content[:span[0]] + marked + content[span[1]:]
	})
}

// orderAttributes rewrites every <l> opening tag so n comes first, metre
// second, and the remaining attributes follow in their original order.
func orderAttributes(s string) string {
	return lineOpenRE.ReplaceAllStringFunc(s, func(tag string) string {
		var n, metre string
		var rest []string
		for _, a := range attrRE.FindAllStringSubmatch(tag, -1) {
			switch a[1] {
			case "n":
				n = a[2]
			case "metre":
				metre = a[2]
			default:
				rest = append(rest, a[1]+`="`+a[2]+`"`)
			}
		}

		parts := make([]string, 0, len(rest)+2)
		if n != "" {
			parts = append(parts, `n="`+n+`"`)
		}
		if metre != "" {
			parts = append(parts, `metre="`+metre+`"`)
		}
		parts = append(parts, rest...)
		if len(parts) == 0 {
			return "<l>"
		}
		return "<l " + strings.Join(parts, " ") + ">"
	})
}

// validate checks the compiled document for leftover marker characters,
// unbalanced angle brackets and empty <l> elements, reporting the first
// offender with its text line number.
func validate(name, s string) error {
	for i, line := range strings.Split(s, "\n") {
		var msg string
		switch {
		case strings.ContainsRune(line, '#'):
			msg = "misplaced #"
		case strings.ContainsRune(line, '€'):
			msg = "misplaced €"
		case strings.Count(line, "<") > strings.Count(line, ">"):
			msg = "lonely <"
		case strings.Count(line, ">") > strings.Count(line, "<"):
			msg = "lonely >"
		case emptyLineRE.MatchString(line):
			msg = "empty <l> element"
		}
		if msg != "" {
			return &errors.ParseError{
				Format:  "compiled markup",
				Path:    name,
				Line:    strconv.Itoa(i + 1),
				Message: msg,
			}
		}
	}
	return nil
}

// replaceLines rewrites the content of every <l> element through fn.
func replaceLines(s string, fn func(opening, content string) string) string {
	var sb strings.Builder
	last := 0
	for _, m := range lineRE.FindAllStringSubmatchIndex(s, -1) {
		opening := s[m[2]:m[3]]
		content := s[m[4]:m[5]]
		closing := s[m[6]:m[7]]

		sb.WriteString(s[last:m[0]])
		sb.WriteString(opening)
		sb.WriteString(fn(opening, content))
		sb.WriteString(closing)
		last = m[1]
	}
	sb.WriteString(s[last:])
	return sb.String()
}

// attrValue extracts one attribute value from an opening tag, or "".
func attrValue(tag, name string) string {
	for _, a := range attrRE.FindAllStringSubmatch(tag, -1) {
		if a[1] == name {
			return a[2]
		}
	}
	return ""
}
