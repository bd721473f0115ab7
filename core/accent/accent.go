// Package accent classifies the accentuation of polytonic Greek text.
//
// Classification works on precomposed code points from the Greek and Greek
// Extended blocks. Decomposed input (combining marks) must be normalized to
// NFC before it reaches this package; the corpus loader does that on read.
package accent

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Category identifies one of the three accent marks of polytonic Greek.
type Category string

const (
	// Acute marks a rising pitch (oxia).
	Acute Category = "acute"
	// Grave marks a suppressed accent on a final syllable (varia).
	Grave Category = "grave"
	// Circumflex marks a rise and fall on one long vowel (perispomeni).
	Circumflex Category = "circumflex"
)

// Categories returns the three accent categories in canonical report order.
func Categories() []Category {
	return []Category{Acute, Grave, Circumflex}
}

// IsValid returns true if the category is one of the known values.
func (c Category) IsValid() bool {
	switch c {
	case Acute, Grave, Circumflex:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Accent-bearing vowels, grouped by case, breathing and diacritic the way the
// Unicode Greek and Greek Extended blocks assign them. Tonos and oxia code
// points are listed side by side: NFC-normalized text carries the tonos
// forms, raw polytonic sources the oxia ones. Iota-subscript combinations are
// included with their base groups.
const (
	upperAcute          = "ΆΈΉΊΌΎΏ"
	upperAcuteOxia      = "ΆΈΉΊΌΎΏ"
	upperSmoothAcute    = "ἌἜἬἼὌὬᾌᾜᾬ"
	upperRoughAcute     = "ἍἝἭἽὍὝὭᾍᾝᾭ"
	lowerAcute          = "άέήίόύώᾴῄῴ"
	lowerAcuteOxia      = "άέήίόύώ"
	lowerSmoothAcute    = "ἄἔἤἴὄὔὤᾄᾔᾤ"
	lowerRoughAcute     = "ἅἕἥἵὅὕὥᾅᾕᾥ"
	lowerDiaeresisAcute = "ΐΰ"
	lowerDiaeresisOxia  = "ΐΰ"

	upperGrave          = "ᾺῈῊῚῸῪῺ"
	upperSmoothGrave    = "ἊἚἪἺὊὪᾊᾚᾪ"
	upperRoughGrave     = "ἋἛἫἻὋὛὫᾋᾛᾫ"
	lowerGrave          = "ὰὲὴὶὸὺὼᾲῂῲ"
	lowerSmoothGrave    = "ἂἒἢἲὂὒὢᾂᾒᾢ"
	lowerRoughGrave     = "ἃἓἣἳὃὓὣᾃᾓᾣ"
	lowerDiaeresisGrave = "ῒῢ"

	upperSmoothCircumflex    = "ἎἮἾὮᾎᾞᾮ"
	upperRoughCircumflex     = "ἏἯἿὟὯᾏᾟᾯ"
	lowerCircumflex          = "ᾶῆῖῦῶᾷῇῷ"
	lowerSmoothCircumflex    = "ἆἦἶὖὦᾆᾖᾦ"
	lowerRoughCircumflex     = "ἇἧἷὗὧᾇᾗᾧ"
	lowerDiaeresisCircumflex = "ῗῧ"
)

var (
	acuteSet = runeSet(upperAcute + upperAcuteOxia + upperSmoothAcute + upperRoughAcute +
		lowerAcute + lowerAcuteOxia + lowerSmoothAcute + lowerRoughAcute +
		lowerDiaeresisAcute + lowerDiaeresisOxia)
	graveSet = runeSet(upperGrave + upperSmoothGrave + upperRoughGrave +
		lowerGrave + lowerSmoothGrave + lowerRoughGrave + lowerDiaeresisGrave)
	circumflexSet = runeSet(upperSmoothCircumflex + upperRoughCircumflex +
		lowerCircumflex + lowerSmoothCircumflex + lowerRoughCircumflex +
		lowerDiaeresisCircumflex)
)

func runeSet(chars string) map[rune]bool {
	set := make(map[rune]bool, len(chars))
	for _, r := range chars {
		set[r] = true
	}
	return set
}

func setOf(c Category) map[rune]bool {
	switch c {
	case Acute:
		return acuteSet
	case Grave:
		return graveSet
	case Circumflex:
		return circumflexSet
	}
	return nil
}

// Normalize strips every rune that is not a letter. Editorial sigla,
// punctuation, elision apostrophes and embedded spaces all drop out, leaving
// only characters that can carry an accent.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Has reports whether any letter of text carries the given accent mark.
// Runes outside the accent tables never match, so text needs no prior
// normalization.
func Has(text string, c Category) bool {
	set := setOf(c)
	if set == nil {
		return false
	}
	for _, r := range text {
		if set[r] {
			return true
		}
	}
	return false
}

// HasAcute reports whether text carries an acute.
func HasAcute(text string) bool {
	return Has(text, Acute)
}

// HasGrave reports whether text carries a grave.
func HasGrave(text string) bool {
	return Has(text, Grave)
}

// HasCircumflex reports whether text carries a circumflex.
func HasCircumflex(text string) bool {
	return Has(text, Circumflex)
}

// Classify returns the categories present in text, in canonical order.
// Unaccented text yields an empty slice.
func Classify(text string) []Category {
	var out []Category
	for _, c := range Categories() {
		if Has(text, c) {
			out = append(out, c)
		}
	}
	return out
}

// IsVowel reports whether r is a Greek vowel in any of its precomposed
// forms. The rune is decomposed so that every breathing, accent, diaeresis,
// length mark and iota subscript combination reduces to its base letter.
func IsVowel(r rune) bool {
	decomposed := norm.NFD.String(string(r))
	base, _ := utf8.DecodeRuneInString(decomposed)
	switch unicode.ToLower(base) {
	case 'α', 'ε', 'η', 'ι', 'ο', 'υ', 'ω':
		return true
	}
	return false
}
