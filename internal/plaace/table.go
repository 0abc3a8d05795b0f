package plaace

import "strings"

// Table is a parsed CSV file: a header row naming columns plus ordered data
// rows. Column access is either by header name or by explicit position into
// the ordered field slice, never by iteration order of a map.
type Table struct {
	header []string
	rows   []Row
}

// Row is one data row with its parent table's header.
type Row struct {
	header []string
	fields []string
}

// Rows returns the data rows in file order.
func (t *Table) Rows() []Row { return t.rows }

// Get returns the field under the named header column, or "" when the column
// does not exist or the row is short.
func (r Row) Get(name string) string {
	for i, h := range r.header {
		if h == name {
			return r.At(i)
		}
	}
	return ""
}

// At returns the field at the given column position, or "" when the row is
// shorter than that.
func (r Row) At(i int) string {
	if i < 0 || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

// StripBOM removes a leading UTF-8 byte order mark.
func StripBOM(text string) string {
	return strings.TrimPrefix(text, "\uFEFF")
}

// ParseSimpleCSV parses a comma-delimited CSV with RFC4180-style quoting.
// The first line names the columns; every following line becomes a row.
func ParseSimpleCSV(text string) *Table {
	lines := splitLines(text)
	if len(lines) == 0 {
		return &Table{}
	}

	t := &Table{header: ParseCSVLine(lines[0])}
	for _, line := range lines[1:] {
		t.rows = append(t.rows, Row{header: t.header, fields: ParseCSVLine(line)})
	}
	return t
}

// ParseCSVLine splits one comma-delimited line. A single-pass character scan
// tracks quoting state; a doubled quote inside a quoted field is an escaped
// literal quote, and every field is trimmed of surrounding whitespace.
func ParseCSVLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// QuoteCSVLine re-serializes fields with quoting, the inverse of
// [ParseCSVLine] for fields containing commas or quotes.
func QuoteCSVLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		if strings.ContainsAny(f, `",`) {
			quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		} else {
			quoted[i] = f
		}
	}
	return strings.Join(quoted, ",")
}

// ParseSemicolonCSV parses the semicolon-delimited origin-data export. It
// splits on ";" and strips at most one leading and trailing quote per field.
// This format has no quote escaping, so it deliberately stays separate from
// the comma parser.
func ParseSemicolonCSV(text string) [][]string {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil
	}

	var rows [][]string
	for _, line := range lines[1:] {
		parts := strings.Split(line, ";")
		for i, p := range parts {
			p = strings.TrimPrefix(p, `"`)
			p = strings.TrimSuffix(p, `"`)
			parts[i] = p
		}
		rows = append(rows, parts)
	}
	return rows
}

func splitLines(text string) []string {
	text = strings.TrimSpace(StripBOM(text))
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
