package dataset

import (
	"bytes"
	"fmt"

	"leximi/internal/period"
)

const moduleHeader = "// Generated by leximi from the line-oriented dataset (do not edit)"

// EncodeModule renders a period as the client-facing JavaScript module.
func EncodeModule(key string, entries []DayEntry) ([]byte, error) {
	if entries == nil {
		entries = []DayEntry{}
	}
	body, err := marshalIndented(entries)
	if err != nil {
		return nil, fmt.Errorf("encode module %s: %w", key, err)
	}
	var buf bytes.Buffer
	buf.WriteString(moduleHeader)
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "export const %s = ", key)
	buf.Write(body)
	return buf.Bytes(), nil
}

// EncodeMonthsModule renders months.js, which imports every populated period
// module in calendar order.
func EncodeMonthsModule(populated []period.Period) []byte {
	var buf bytes.Buffer
	buf.WriteString(moduleHeader)
	buf.WriteByte('\n')
	for _, p := range populated {
		fmt.Fprintf(&buf, "import { %s } from './%s'\n", p.Key, p.Key)
	}
	buf.WriteString("\nexport const MONTHS = [\n")
	for i, p := range populated {
		fmt.Fprintf(&buf, "  { key: '%s', label: '%s', days: %s }", p.Key, p.Label, p.Key)
		if i < len(populated)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	return buf.Bytes()
}
