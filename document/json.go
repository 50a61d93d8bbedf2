package document

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/teranos/shapegen/errors"
)

func parseJSON(data []byte, maxDepth int) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, errors.NewMalformedInputError("invalid JSON document")
	}
	return fromGJSON(gjson.ParseBytes(data), 1, maxDepth)
}

func fromGJSON(r gjson.Result, depth, maxDepth int) (Value, error) {
	switch r.Type {
	case gjson.Null:
		return NullValue(), nil
	case gjson.True:
		return BoolValue(true), nil
	case gjson.False:
		return BoolValue(false), nil
	case gjson.String:
		return StringValue(r.Str), nil
	case gjson.Number:
		return numberFromRaw(r.Raw, r.Num), nil
	}

	if err := checkDepth(depth, maxDepth); err != nil {
		return Value{}, err
	}

	var walkErr error
	if r.IsArray() {
		items := make([]Value, 0)
		r.ForEach(func(_, item gjson.Result) bool {
			v, err := fromGJSON(item, depth+1, maxDepth)
			if err != nil {
				walkErr = err
				return false
			}
			items = append(items, v)
			return true
		})
		if walkErr != nil {
			return Value{}, walkErr
		}
		return ArrayValue(items...), nil
	}

	b := newObjectBuilder(0)
	r.ForEach(func(key, item gjson.Result) bool {
		v, err := fromGJSON(item, depth+1, maxDepth)
		if err != nil {
			walkErr = err
			return false
		}
		b.set(key.Str, v)
		return true
	})
	if walkErr != nil {
		return Value{}, walkErr
	}
	return b.build(), nil
}

// numberFromRaw keeps the integer/float distinction of the source text.
// Integers outside the int64 range degrade to floats.
func numberFromRaw(raw string, num float64) Value {
	if strings.ContainsAny(raw, ".eE") {
		return FloatValue(num)
	}
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return FloatValue(num)
	}
	return IntValue(i)
}
