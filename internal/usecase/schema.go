package usecase

import (
	"strings"
)

const utf8BOM = "\uFEFF"

// HeaderIndex maps a trimmed column name to its position in each record.
type HeaderIndex map[string]int

// NewHeaderIndex indexes a header row. Names are trimmed and a UTF-8 byte
// order mark on the first one is dropped. A repeated name keeps its last position.
func NewHeaderIndex(header []string) HeaderIndex {
	h := make(HeaderIndex, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		h[strings.TrimSpace(name)] = i
	}
	return h
}

// Missing returns the required columns absent from the header, in the order given.
func (h HeaderIndex) Missing(required []string) []string {
	var missing []string
	for _, col := range required {
		if _, ok := h[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// Get returns the trimmed value of col in record. Unknown columns and short
// records read as empty.
func (h HeaderIndex) Get(record []string, col string) string {
	idx, ok := h[col]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
