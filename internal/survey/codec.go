package survey

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// keySep joins the base scene label with category codes in composite keys.
	keySep = "_"
	// labelSep joins the decoded human-readable segments.
	labelSep = " | "
	// UnknownLabel is the sentinel for a code that cannot be decoded.
	UnknownLabel = "unknown"
)

// CategoryMap maps each category column to its {code → original label}
// dictionary. Codes are assigned by first appearance of each distinct value
// within one upload, so a map is only valid for keys produced from that same
// upload.
type CategoryMap map[string]map[int]string

// categoryEncoder assigns codes during one encoding pass.
type categoryEncoder struct {
	columns []string
	codes   map[string]map[string]int // column → label → code
	out     CategoryMap
}

func newCategoryEncoder(columns []string) *categoryEncoder {
	enc := &categoryEncoder{
		columns: columns,
		codes:   make(map[string]map[string]int, len(columns)),
		out:     make(CategoryMap, len(columns)),
	}
	for _, c := range columns {
		enc.codes[c] = make(map[string]int)
		enc.out[c] = make(map[int]string)
	}
	return enc
}

// code returns the stable integer for label in column, assigning the next
// first-appearance code when new.
func (enc *categoryEncoder) code(column, label string) int {
	m := enc.codes[column]
	if c, ok := m[label]; ok {
		return c
	}
	c := len(m)
	m[label] = c
	enc.out[column][c] = label
	return c
}

// EncodeKey builds the composite scene key for one row: the base label
// followed by one code per category column, in column order.
func (enc *categoryEncoder) EncodeKey(base string, categories map[string]string) string {
	parts := make([]string, 0, 1+len(enc.columns))
	parts = append(parts, base)
	for _, col := range enc.columns {
		parts = append(parts, strconv.Itoa(enc.code(col, categories[col])))
	}
	return strings.Join(parts, keySep)
}

// Map returns the reversible code→label mapping built so far.
func (enc *categoryEncoder) Map() CategoryMap {
	return enc.out
}

// DecodeKey recovers the human-readable scene label from a composite key.
// categories must enumerate the same columns in the same order used for
// encoding. Undecodable segments fall back to the "unknown" sentinel; decoding
// never fails outright.
func DecodeKey(key string, columns []string, cm CategoryMap) string {
	if len(columns) == 0 {
		return key
	}
	parts := strings.Split(key, keySep)
	if len(parts) <= len(columns) {
		// Key shorter than the category count: nothing trustworthy to split.
		return key + labelSep + UnknownLabel
	}
	base := strings.Join(parts[:len(parts)-len(columns)], keySep)
	segs := []string{base}
	codes := parts[len(parts)-len(columns):]
	for i, col := range columns {
		segs = append(segs, decodeSegment(cm, col, codes[i]))
	}
	return strings.Join(segs, labelSep)
}

func decodeSegment(cm CategoryMap, column, rawCode string) string {
	code, err := strconv.Atoi(rawCode)
	if err != nil {
		return UnknownLabel
	}
	byCode, ok := cm[column]
	if !ok {
		return UnknownLabel
	}
	label, ok := byCode[code]
	if !ok {
		return UnknownLabel
	}
	return label
}

// DecodeAll maps every scene key to its decoded label, preserving input order
// in the returned slice of labels.
func DecodeAll(keys []string, columns []string, cm CategoryMap) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = DecodeKey(k, columns, cm)
	}
	return out
}

// String renders the map deterministically for logs: columns sorted, codes
// ascending within each column.
func (cm CategoryMap) String() string {
	cols := make([]string, 0, len(cm))
	for col := range cm {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var b strings.Builder
	for _, col := range cols {
		byCode := cm[col]
		codes := make([]int, 0, len(byCode))
		for c := range byCode {
			codes = append(codes, c)
		}
		sort.Ints(codes)
		fmt.Fprintf(&b, "%s[", col)
		for i, c := range codes {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d=%s", c, byCode[c])
		}
		b.WriteString("] ")
	}
	return strings.TrimSpace(b.String())
}
