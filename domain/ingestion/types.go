package ingestion

// RawRow maps a column header to its trimmed cell text
type RawRow map[string]string

// RawTable is the untyped table every source produces
type RawTable struct {
	Source  string   // Human-readable source name, e.g. file path or table
	Headers []string // Column headers in source order
	Rows    []RawRow // Data rows in source order
}

// HasColumn reports whether the header list contains name
func (t *RawTable) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the names in required that are absent from the header list
func (t *RawTable) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Column returns every row's value for the named column, "" where a row is short
func (t *RawTable) Column(name string) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}
