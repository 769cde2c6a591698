package chapters

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"
)

type record struct {
	start float64
	title string
}

type jsonChapter struct {
	StartTime *float64 `json:"start_time"`
	Title     *string  `json:"title"`
}

func decodeJSON(s string) ([]record, bool) {
	if !strings.HasPrefix(s, "[") {
		return nil, false
	}
	var chapters []jsonChapter
	if err := json.Unmarshal([]byte(s), &chapters); err != nil {
		return nil, false
	}
	records := make([]record, 0, len(chapters))
	for _, c := range chapters {
		if c.StartTime == nil || c.Title == nil {
			continue
		}
		records = append(records, record{start: *c.StartTime, title: *c.Title})
	}
	return records, true
}

// decodeRepr scans a python repr of a list of flat dicts. Dicts missing a
// numeric start_time or a string title are ignored, as is anything between
// dicts.
func decodeRepr(s string) []record {
	var records []record
	sc := &scanner{src: s}
	for {
		if !sc.skipTo('{') {
			return records
		}
		fields, ok := sc.dict()
		if !ok {
			continue
		}
		start, hasStart := fields["start_time"]
		title, hasTitle := fields["title"]
		if !hasStart || !hasTitle || !title.isString {
			continue
		}
		seconds, err := strconv.ParseFloat(start.text, 64)
		if err != nil || start.isString {
			continue
		}
		records = append(records, record{start: seconds, title: title.text})
	}
}

type value struct {
	text     string
	isString bool
}

type scanner struct {
	src string
	pos int
}

func (sc *scanner) skipTo(c byte) bool {
	idx := strings.IndexByte(sc.src[sc.pos:], c)
	if idx < 0 {
		sc.pos = len(sc.src)
		return false
	}
	sc.pos += idx
	return true
}

func (sc *scanner) skipSpace() {
	for sc.pos < len(sc.src) && strings.IndexByte(" \t\r\n", sc.src[sc.pos]) >= 0 {
		sc.pos++
	}
}

func (sc *scanner) peek() byte {
	if sc.pos >= len(sc.src) {
		return 0
	}
	return sc.src[sc.pos]
}

// dict parses "{key: value, ...}" starting at '{'. On failure the scanner is
// left just past the opening brace so scanning can resume.
func (sc *scanner) dict() (map[string]value, bool) {
	open := sc.pos
	sc.pos++
	fields := make(map[string]value)
	for {
		sc.skipSpace()
		switch sc.peek() {
		case '}':
			sc.pos++
			return fields, true
		case ',':
			sc.pos++
			continue
		case 0:
			return nil, false
		}
		key, ok := sc.value()
		if !ok || !key.isString {
			sc.pos = open + 1
			return nil, false
		}
		sc.skipSpace()
		if sc.peek() != ':' {
			sc.pos = open + 1
			return nil, false
		}
		sc.pos++
		sc.skipSpace()
		val, ok := sc.value()
		if !ok {
			sc.pos = open + 1
			return nil, false
		}
		fields[key.text] = val
	}
}

func (sc *scanner) value() (value, bool) {
	switch c := sc.peek(); c {
	case '\'', '"':
		text, ok := sc.quoted(c)
		return value{text: text, isString: true}, ok
	case '{', '[':
		return value{}, sc.skipNested()
	default:
		start := sc.pos
		for sc.pos < len(sc.src) && strings.IndexByte(",}: \t\r\n", sc.src[sc.pos]) < 0 {
			sc.pos++
		}
		if sc.pos == start {
			return value{}, false
		}
		return value{text: sc.src[start:sc.pos]}, true
	}
}

func (sc *scanner) skipNested() bool {
	depth := 0
	for sc.pos < len(sc.src) {
		switch c := sc.src[sc.pos]; c {
		case '\'', '"':
			if _, ok := sc.quoted(c); !ok {
				return false
			}
			continue
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				sc.pos++
				return true
			}
		}
		sc.pos++
	}
	return false
}

// quoted reads a python string literal delimited by quote and decodes the
// common escapes.
func (sc *scanner) quoted(quote byte) (string, bool) {
	sc.pos++
	var b strings.Builder
	for sc.pos < len(sc.src) {
		c := sc.src[sc.pos]
		switch {
		case c == quote:
			sc.pos++
			return b.String(), true
		case c == '\\' && sc.pos+1 < len(sc.src):
			sc.pos++
			sc.escape(&b)
		default:
			r, size := utf8.DecodeRuneInString(sc.src[sc.pos:])
			b.WriteRune(r)
			sc.pos += size
		}
	}
	return "", false
}

func (sc *scanner) escape(b *strings.Builder) {
	c := sc.src[sc.pos]
	sc.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '\\', '\'', '"':
		b.WriteByte(c)
	case 'x':
		sc.codePoint(b, 2, `\x`)
	case 'u':
		sc.codePoint(b, 4, `\u`)
	case 'U':
		sc.codePoint(b, 8, `\U`)
	default:
		b.WriteByte('\\')
		b.WriteByte(c)
	}
}

func (sc *scanner) codePoint(b *strings.Builder, digits int, prefix string) {
	if sc.pos+digits > len(sc.src) {
		b.WriteString(prefix)
		return
	}
	n, err := strconv.ParseUint(sc.src[sc.pos:sc.pos+digits], 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		b.WriteString(prefix)
		return
	}
	b.WriteRune(rune(n))
	sc.pos += digits
}
