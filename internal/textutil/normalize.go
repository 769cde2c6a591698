package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Correction rewrites every match of Pattern with Replacement.
type Correction struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Normalizer canonicalizes chapter titles published by the source channel.
// It is safe for concurrent use; the correction table is never mutated.
type Normalizer struct {
	corrections []Correction
}

// NewNormalizer copies the provided corrections into a new normalizer.
// Corrections run in order, before the generic all-caps fallback.
func NewNormalizer(corrections []Correction) *Normalizer {
	return &Normalizer{corrections: append([]Correction(nil), corrections...)}
}

// NewDefaultNormalizer returns a normalizer seeded with DefaultCorrections.
func NewDefaultNormalizer() *Normalizer {
	return NewNormalizer(DefaultCorrections())
}

// DefaultCorrections returns the known mis-transliterated or shouted book
// names seen in chapter listings. Multi-word names with lowercase connectives
// must appear here because the fallback would capitalize every word.
func DefaultCorrections() []Correction {
	return []Correction{
		literal(`ZANAFLLA`, "Zanafilla"),
		literal(`(?i)Zanaflla`, "Zanafilla"),
		literal(`ZANAFILLA`, "Zanafilla"),
		literal(`MATEU`, "Mateu"),
		literal(`MARKU`, "Marku"),
		literal(`LUKA`, "Luka"),
		literal(`VEPRAT`, "Veprat"),
		literal(`EZRA`, "Ezdra"),
		literal(`EZDRA`, "Ezdra"),
		literal(`NEHEMIA`, "Nehemia"),
		literal(`ESTERI`, "Esteri"),
		literal(`JOBI`, "Jobi"),
		literal(`(?i)ROMAK\SVE`, "Romakëve"),
		literal(`ROMAKËVE`, "Romakëve"),
		literal(`1 E KORINTASVE`, "1 e Korintasve"),
		literal(`2 E KORINTASVE`, "2 e Korintasve"),
		literal(`GALATASVE`, "Galatasve"),
		literal(`EFESIANËVE`, "Efesianëve"),
		literal(`FILIPIANËVE`, "Filipianëve"),
		literal(`KOLOSIANËVE`, "Kolosianëve"),
		literal(`(?i)HYRJE`, "Hyrje"),
	}
}

func literal(pattern, replacement string) Correction {
	return Correction{Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

// Normalize applies NFC composition, the correction table, the all-caps
// fallback and a final trim. Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(s string) string {
	out := norm.NFC.String(s)
	if n != nil {
		for _, c := range n.corrections {
			if c.Pattern == nil {
				continue
			}
			out = c.Pattern.ReplaceAllLiteralString(out, c.Replacement)
		}
	}
	return strings.TrimSpace(titleCaseShouting(out))
}

// titleCaseShouting rewrites every word made only of upper-case letters with
// at least two letters to its first letter followed by the lowered remainder.
// Words are maximal runs of letters, digits and combining marks.
func titleCaseShouting(s string) string {
	var (
		b     strings.Builder
		word  []rune
		lower = cases.Lower(language.Albanian)
	)
	b.Grow(len(s))
	flush := func() {
		if len(word) == 0 {
			return
		}
		if isShouting(word) {
			b.WriteRune(word[0])
			b.WriteString(lower.String(string(word[1:])))
		} else {
			b.WriteString(string(word))
		}
		word = word[:0]
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) {
			word = append(word, r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

func isShouting(word []rune) bool {
	if len(word) < 2 {
		return false
	}
	for _, r := range word {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
