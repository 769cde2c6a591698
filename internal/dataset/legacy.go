package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"leximi/internal/services"
)

// DecodeLegacyModule reads an older "export const <key> = [ ... ]" data
// module. Comments and trailing commas are removed and each top-level object
// of the array is decoded on its own, so one damaged entry does not hide the
// others. It is only used to migrate periods that have no line-oriented file.
func DecodeLegacyModule(file string, data []byte) ([]DayEntry, []RecordWarning) {
	src := stripComments(data)
	start := bytes.IndexByte(src, '=')
	if start < 0 {
		start = 0
	}
	open := bytes.IndexByte(src[start:], '[')
	if open < 0 {
		return nil, []RecordWarning{{File: file, Line: 1, Err: fmt.Errorf("%w: no array literal", services.ErrMalformedRecord)}}
	}
	objects, err := topLevelObjects(src[start+open:])

	var (
		entries  []DayEntry
		warnings []RecordWarning
	)
	for _, obj := range objects {
		entry, decodeErr := decodeEntry(removeTrailingCommas(obj.text))
		if decodeErr != nil {
			warnings = append(warnings, RecordWarning{File: file, Line: lineOf(src, start+open+obj.offset), Err: decodeErr})
			continue
		}
		entries = append(entries, entry)
	}
	if err != nil {
		warnings = append(warnings, RecordWarning{File: file, Line: lineOf(src, len(src)), Err: fmt.Errorf("%w: %w", services.ErrMalformedRecord, err)})
	}
	return entries, warnings
}

type rawObject struct {
	offset int
	text   []byte
}

// topLevelObjects returns the objects directly inside the array that starts
// at src[0].
func topLevelObjects(src []byte) ([]rawObject, error) {
	var (
		objects []rawObject
		depth   int
		begin   = -1
		quote   byte
		escaped bool
	)
	for i := 1; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{', '[':
			if depth == 0 && c == '{' {
				begin = i
			}
			depth++
		case '}', ']':
			if depth == 0 {
				if c == ']' {
					return objects, nil
				}
				return objects, errors.New("unbalanced closing brace")
			}
			depth--
			if depth == 0 && c == '}' && begin >= 0 {
				objects = append(objects, rawObject{offset: begin, text: src[begin : i+1]})
				begin = -1
			}
		}
	}
	return objects, errors.New("unterminated array literal")
}

// stripComments blanks out // and /* */ comments outside string literals,
// keeping newlines so line numbers stay meaningful.
func stripComments(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	var (
		quote   byte
		escaped bool
	)
	for i := 0; i < len(out); i++ {
		c := out[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch {
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(out) && out[i+1] == '/':
			for i < len(out) && out[i] != '\n' {
				out[i] = ' '
				i++
			}
		case c == '/' && i+1 < len(out) && out[i+1] == '*':
			out[i], out[i+1] = ' ', ' '
			i += 2
			for i < len(out) && !(out[i] == '*' && i+1 < len(out) && out[i+1] == '/') {
				if out[i] != '\n' {
					out[i] = ' '
				}
				i++
			}
			if i < len(out) {
				out[i], out[i+1] = ' ', ' '
				i++
			}
		}
	}
	return out
}

// removeTrailingCommas drops commas that directly precede a closing brace or
// bracket, ignoring whitespace and string contents.
func removeTrailingCommas(src []byte) []byte {
	out := make([]byte, 0, len(src))
	var (
		inString bool
		escaped  bool
	)
	for i := 0; i < len(src); i++ {
		c := src[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
		}
		if c == ',' {
			j := i + 1
			for j < len(src) && strings.ContainsRune(" \t\r\n", rune(src[j])) {
				j++
			}
			if j < len(src) && (src[j] == '}' || src[j] == ']') {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func lineOf(src []byte, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return bytes.Count(src[:offset], []byte{'\n'}) + 1
}
