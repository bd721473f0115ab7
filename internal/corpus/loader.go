package corpus

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/text/unicode/norm"

	"github.com/strophic/responsion/core/errors"
	"github.com/strophic/responsion/core/verse"
)

// Precompiled queries for the compiled-markup shape. Strophes and
// antistrophes are sibling elements distinguished by name; syllables may sit
// under editorial wrappers, so they descend.
var (
	stropheQuery = xpath.MustCompile(`//*[self::strophe or self::antistrophe]`)
	lineQuery    = xpath.MustCompile(`l`)
	syllQuery    = xpath.MustCompile(`.//syll`)
)

// Source yields compiled play documents by infix.
type Source interface {
	// Available returns the infixes present, in canonical play order.
	Available() ([]string, error)

	// ReadCompiled returns the compiled document for one play.
	ReadCompiled(infix string) ([]byte, error)
}

// Open returns a Source for a corpus path: a directory of compiled files,
// or a tar.gz/tar.xz archive of them.
func Open(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewIO("stat", path, err)
	}
	if info.IsDir() {
		return &Dir{Path: path}, nil
	}
	if strings.HasSuffix(path, ".tar.xz") || strings.HasSuffix(path, ".tar.gz") {
		return &Archive{Path: path}, nil
	}
	return nil, errors.NewUnsupported("corpus format", path)
}

// Dir reads compiled plays from a directory.
type Dir struct {
	Path string
}

func (d *Dir) Available() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, errors.NewIO("read", d.Path, err)
	}
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		present[e.Name()] = true
	}

	var out []string
	for _, inf := range Infixes {
		if present[CompiledFile(inf)] {
			out = append(out, inf)
		}
	}
	return out, nil
}

func (d *Dir) ReadCompiled(infix string) ([]byte, error) {
	path := filepath.Join(d.Path, CompiledFile(infix))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("play", infix)
		}
		return nil, errors.NewIO("read", path, err)
	}
	return data, nil
}

// LoadPlay reads and parses one play.
func LoadPlay(src Source, infix string) (*verse.Play, error) {
	data, err := src.ReadCompiled(infix)
	if err != nil {
		return nil, err
	}
	return ParsePlay(infix, data)
}

// LoadPlays reads and parses the given plays, in canonical order.
func LoadPlays(src Source, infixes []string) ([]*verse.Play, error) {
	plays := make([]*verse.Play, 0, len(infixes))
	for _, inf := range Ordered(infixes) {
		p, err := LoadPlay(src, inf)
		if err != nil {
			return nil, err
		}
		plays = append(plays, p)
	}
	return plays, nil
}

// LoadAll reads and parses every play the source has.
func LoadAll(src Source) ([]*verse.Play, error) {
	infixes, err := src.Available()
	if err != nil {
		return nil, err
	}
	return LoadPlays(src, infixes)
}

// ParsePlay parses one compiled document. Strophes and antistrophes are
// collected in document order; only elements carrying a responsion id take
// part in analysis, so others are skipped. Syllable text is NFC-normalized
// on the way in because the accent tables expect precomposed code points.
func ParsePlay(infix string, data []byte) (*verse.Play, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &errors.ParseError{Format: "compiled XML", Path: CompiledFile(infix), Message: err.Error(), Err: err}
	}

	play := &verse.Play{Infix: infix}
	if root := doc.SelectElement("*"); root != nil {
		play.Title = root.SelectAttr("title")
	}

	nodes := xmlquery.QuerySelectorAll(doc, stropheQuery)
	for _, n := range nodes {
		responsion := n.SelectAttr("responsion")
		if responsion == "" {
			continue
		}
		kind, err := stropheKind(n)
		if err != nil {
			return nil, err
		}

		strophe := verse.Strophe{Kind: kind, Responsion: responsion}
		for _, l := range xmlquery.QuerySelectorAll(n, lineQuery) {
			line := verse.Line{
				N:     l.SelectAttr("n"),
				Metre: l.SelectAttr("metre"),
			}
			for _, s := range xmlquery.QuerySelectorAll(l, syllQuery) {
				syll, err := parseSyllable(s)
				if err != nil {
					return nil, errors.Wrapf(err, "play %s line %s", infix, line.N)
				}
				line.Sylls = append(line.Sylls, syll)
			}
			strophe.Lines = append(strophe.Lines, line)
		}
		play.Strophes = append(play.Strophes, strophe)
	}
	return play, nil
}

func stropheKind(n *xmlquery.Node) (verse.StropheKind, error) {
	if t := n.SelectAttr("type"); t != "" {
		return verse.ParseStropheKind(t)
	}
	return verse.ParseStropheKind(n.Data)
}

func parseSyllable(n *xmlquery.Node) (verse.Syllable, error) {
	weight, err := verse.ParseWeight(n.SelectAttr("weight"))
	if err != nil {
		return verse.Syllable{}, err
	}
	return verse.Syllable{
		Text:          norm.NFC.String(n.InnerText()),
		Tail:          norm.NFC.String(tailOf(n)),
		Weight:        weight,
		Anceps:        n.SelectAttr("anceps") == "True",
		Resolution:    n.SelectAttr("resolution") == "True",
		Contraction:   n.SelectAttr("contraction") == "True",
		BrevisInLongo: n.SelectAttr("brevis_in_longo") == "True",
	}, nil
}

// tailOf collects the text between this element's end tag and the next
// element, the word-boundary evidence the contour heuristic reads.
func tailOf(n *xmlquery.Node) string {
	var sb strings.Builder
	for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type == xmlquery.ElementNode {
			break
		}
		if sib.Type == xmlquery.TextNode || sib.Type == xmlquery.CharDataNode {
			sb.WriteString(sib.Data)
		}
	}
	return sb.String()
}
