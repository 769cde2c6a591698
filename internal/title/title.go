package title

import (
	"regexp"
	"strconv"
	"strings"

	"leximi/internal/period"
	"leximi/internal/services"
)

// trailingDate matches "... ] <day> <periodToken>" at the end of a title.
var trailingDate = regexp.MustCompile(`\]\s*(\d+)\s+(\S+)\s*$`)

// entityDecoder handles only the entities the feed is known to emit.
var entityDecoder = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&#39;", "'",
	"&quot;", "\"",
)

const maxDay = 31

// Parsed is the date encoded in a feed title.
type Parsed struct {
	Day        int
	PeriodName string
}

// Parser extracts the day and period from feed titles.
type Parser struct {
	periods *period.Table
}

// NewParser builds a parser that resolves period tokens against table.
func NewParser(table *period.Table) *Parser {
	return &Parser{periods: table}
}

// Parse returns the trailing day and period token. It reports false when the
// title carries no date or the day is outside 1..31.
func (p *Parser) Parse(raw string) (Parsed, bool) {
	decoded := entityDecoder.Replace(raw)
	match := trailingDate.FindStringSubmatch(decoded)
	if match == nil {
		return Parsed{}, false
	}
	day, err := strconv.Atoi(match[1])
	if err != nil || day < 1 || day > maxDay {
		return Parsed{}, false
	}
	return Parsed{Day: day, PeriodName: match[2]}, true
}

// Resolve parses raw and looks the period token up in the table.
func (p *Parser) Resolve(raw string) (Parsed, period.Period, error) {
	parsed, ok := p.Parse(raw)
	if !ok {
		return Parsed{}, period.Period{}, services.Wrap(services.ErrUnparseableTitle, "title", "parse", raw, nil)
	}
	per, ok := p.periods.ByLabel(parsed.PeriodName)
	if !ok {
		return parsed, period.Period{}, services.Wrap(services.ErrUnknownPeriod, "title", "resolve", parsed.PeriodName, nil)
	}
	return parsed, per, nil
}
