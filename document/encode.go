package document

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/tidwall/pretty"
)

// MarshalJSON renders the value as compact JSON with object keys in
// document order. JSON has no NaN or infinities; those floats are written
// as the strings "NaN", "+Inf" and "-Inf".
func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil), nil
}

// Indent renders the value as indented JSON for display.
func (v Value) Indent() string {
	return string(pretty.PrettyOptions(v.appendJSON(nil), &pretty.Options{
		Width:  80,
		Indent: "  ",
	}))
}

func (v Value) appendJSON(buf []byte) []byte {
	switch v.kind {
	case Bool:
		return strconv.AppendBool(buf, v.b)
	case Int:
		return strconv.AppendInt(buf, v.i, 10)
	case Float:
		switch {
		case math.IsNaN(v.f):
			return append(buf, `"NaN"`...)
		case math.IsInf(v.f, 1):
			return append(buf, `"+Inf"`...)
		case math.IsInf(v.f, -1):
			return append(buf, `"-Inf"`...)
		}
		start := len(buf)
		buf = strconv.AppendFloat(buf, v.f, 'g', -1, 64)
		if !bytes.ContainsAny(buf[start:], ".e") {
			// keep the float visibly a float
			buf = append(buf, ".0"...)
		}
		return buf
	case String:
		return appendString(buf, v.s)
	case Array:
		buf = append(buf, '[')
		for i, item := range v.items {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = item.appendJSON(buf)
		}
		return append(buf, ']')
	case Object:
		buf = append(buf, '{')
		for i, f := range v.fields {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendString(buf, f.Key)
			buf = append(buf, ':')
			buf = f.Value.appendJSON(buf)
		}
		return append(buf, '}')
	}
	return append(buf, "null"...)
}

func appendString(buf []byte, s string) []byte {
	// json.Marshal of a string cannot fail
	b, _ := json.Marshal(s)
	return append(buf, b...)
}
