package generate

import (
	"fmt"
	"strings"

	"github.com/teranos/shapegen/schema"
)

// RecordSummary is a language-neutral view of one inferred record.
type RecordSummary struct {
	Name string `json:"name"`
	// Signature is the xxhash digest of the record's structural signature
	Signature string         `json:"signature"`
	Root      bool           `json:"root,omitempty"`
	Fields    []FieldSummary `json:"fields"`
}

// FieldSummary describes one field of a RecordSummary.
type FieldSummary struct {
	Key        string `json:"key"`
	Type       string `json:"type"`
	Default    string `json:"default"`
	Normalized bool   `json:"normalized,omitempty"`
}

// Describe summarizes s in emission order.
func Describe(s *schema.Schema) []RecordSummary {
	all := s.All()
	out := make([]RecordSummary, 0, len(all))
	for _, def := range all {
		rec := RecordSummary{
			Name:      def.Name,
			Signature: def.Signature.Digest(),
			Root:      def == s.Root,
			Fields:    make([]FieldSummary, 0, len(def.Fields)),
		}
		for _, f := range def.Fields {
			js, _ := f.Default.MarshalJSON()
			rec.Fields = append(rec.Fields, FieldSummary{
				Key:        f.Name,
				Type:       f.Type.String(),
				Default:    string(js),
				Normalized: f.NeedsNormalization,
			})
		}
		out = append(out, rec)
	}
	return out
}

// FormatDescription renders summaries as an aligned text listing:
//
//	Address  #1f3a...
//	  city   string = "Berlin"
func FormatDescription(records []RecordSummary) string {
	var sb strings.Builder
	for i, rec := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		marker := ""
		if rec.Root {
			marker = " (root)"
		}
		sb.WriteString(fmt.Sprintf("%s%s  #%s\n", rec.Name, marker, rec.Signature))

		width := 0
		for _, f := range rec.Fields {
			width = max(width, len(f.Key))
		}
		for _, f := range rec.Fields {
			sb.WriteString(fmt.Sprintf("  %-*s  %s = %s\n", width, f.Key, f.Type, f.Default))
		}
	}
	return sb.String()
}
