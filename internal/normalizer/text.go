package normalizer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultText is the placeholder written for text cells that end up empty.
const DefaultText = " "

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// forbiddenChars would break the tabular output.
var forbiddenChars = strings.NewReplacer(
	",", "",
	"'", "",
	`"`, "",
	"\r", "",
	"\n", "",
	"\t", "",
)

// asciiFold maps common characters that NFKD does not decompose into an
// ASCII spelling.
var asciiFold = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
	"ł", "l", "Ł", "L",
	"þ", "th", "Þ", "Th",
	"ð", "d", "Ð", "D",
	"‘", "'", "’", "'", "‚", "'",
	"“", `"`, "”", `"`, "„", `"`,
	"«", `"`, "»", `"`,
	"–", "-", "—", "-", "−", "-",
	"…", "...",
	"•", "*",
	"©", "(c)", "®", "(R)", "™", "TM",
	"\u00a0", " ",
)

// NormalizeText sanitises a free-text value for a tabular cell.
//
// The value is rendered to a string, reduced to printable ASCII, stripped of
// markup, entity-decoded, stripped again and cleared of characters that
// would break the row. An empty result yields def.
func NormalizeText(value any, def string) string {
	s := displayString(value)
	s = toASCII(s)
	s = stripTags(s)
	s = unescapeEntities(s)
	s = stripTags(s)
	s = forbiddenChars.Replace(s)
	s = strings.TrimSpace(s)

	if s == "" {
		return def
	}

	return s
}

// displayString renders any decoded JSON value. nil renders as empty.
func displayString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// toASCII transliterates s to printable ASCII. Accents are decomposed and
// dropped, a few well-known characters are spelled out, and whatever is
// left outside printable ASCII is removed.
func toASCII(s string) string {
	s = asciiFold.Replace(s)

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
			return r
		case r >= 0x20 && r <= 0x7e:
			return r
		default:
			return -1
		}
	}, s)
}

func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// unescapeEntities decodes HTML entities. A bare ampersand left over after
// decoding is dropped along with the entity syntax. Decoded characters go
// through the ASCII fold again (&nbsp;, &eacute;, ...).
func unescapeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}

	return toASCII(strings.ReplaceAll(html.UnescapeString(s), "&", ""))
}
