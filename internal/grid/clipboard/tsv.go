package clipboard

import "strings"

// FormatTSV writes records as tab-separated text. Every record is terminated
// by a newline. Tabs, newlines, carriage returns and backslashes inside a
// field are escaped as \t, \n, \r and \\, so any field text round-trips.
func FormatTSV(records [][]string) string {
	var b strings.Builder
	for _, rec := range records {
		for i, field := range rec {
			if i > 0 {
				b.WriteByte('\t')
			}
			writeEscaped(&b, field)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func writeEscaped(b *strings.Builder, s string) {
	// Every escaped byte is ASCII, so working on bytes keeps any UTF-8
	// sequence (valid or not) intact.
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
}

// ParseTSV reads tab-separated text. Lines may end in "\n" or "\r\n"; a
// trailing line terminator does not start another record. Fields are kept
// even when empty, so records may have different lengths. An unknown escape
// sequence is kept verbatim.
func ParseTSV(text string) [][]string {
	if text == "" {
		return nil
	}

	var (
		records [][]string
		record  []string
		field   strings.Builder
		escaped bool
	)
	endField := func() {
		record = append(record, field.String())
		field.Reset()
	}

	for i := 0; i < len(text); i++ {
		r := text[i]
		if escaped {
			escaped = false
			switch r {
			case 't':
				field.WriteByte('\t')
			case 'n':
				field.WriteByte('\n')
			case 'r':
				field.WriteByte('\r')
			case '\\':
				field.WriteByte('\\')
			default:
				field.WriteByte('\\')
				field.WriteByte(r)
			}
			continue
		}

		switch r {
		case '\\':
			escaped = true
		case '\t':
			endField()
		case '\n':
			endField()
			records = append(records, record)
			record = nil
		case '\r':
			// Unescaped carriage returns only appear in line endings.
		default:
			field.WriteByte(r)
		}
	}

	if escaped {
		field.WriteByte('\\')
	}
	if field.Len() > 0 || record != nil {
		endField()
		records = append(records, record)
	}
	return records
}

// Width returns the length of the longest record.
func Width(records [][]string) int {
	w := 0
	for _, rec := range records {
		w = max(w, len(rec))
	}
	return w
}
