package document

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/teranos/shapegen/errors"
)

func parseTOML(data []byte, maxDepth int) (Value, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Value{}, errors.Wrap(errors.ErrMalformedInput, err.Error())
	}
	return fromTOML(raw, nil, keyRanks(md.Keys()), 1, maxDepth)
}

// keyRanks records the first position of every key path in the document,
// since decoding into maps discards order.
func keyRanks(keys []toml.Key) map[string]int {
	ranks := make(map[string]int, len(keys))
	for i, k := range keys {
		p := strings.Join(k, "\x00")
		if _, ok := ranks[p]; !ok {
			ranks[p] = i
		}
	}
	return ranks
}

func fromTOML(x any, path []string, ranks map[string]int, depth, maxDepth int) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case int64:
		return IntValue(t), nil
	case float64:
		return FloatValue(t), nil
	case string:
		return StringValue(t), nil
	case time.Time:
		return StringValue(t.Format(time.RFC3339Nano)), nil
	case fmt.Stringer:
		// toml.LocalDate, LocalTime and LocalDateTime
		return StringValue(t.String()), nil

	case map[string]any:
		if err := checkDepth(depth, maxDepth); err != nil {
			return Value{}, err
		}
		keys := orderedKeys(t, path, ranks)
		b := newObjectBuilder(len(keys))
		for _, k := range keys {
			v, err := fromTOML(t[k], append(append([]string(nil), path...), k), ranks, depth+1, maxDepth)
			if err != nil {
				return Value{}, err
			}
			b.set(k, v)
		}
		return b.build(), nil

	case []map[string]any:
		if err := checkDepth(depth, maxDepth); err != nil {
			return Value{}, err
		}
		items := make([]Value, 0, len(t))
		for _, table := range t {
			v, err := fromTOML(table, path, ranks, depth+1, maxDepth)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return ArrayValue(items...), nil

	case []any:
		if err := checkDepth(depth, maxDepth); err != nil {
			return Value{}, err
		}
		items := make([]Value, 0, len(t))
		for _, item := range t {
			v, err := fromTOML(item, path, ranks, depth+1, maxDepth)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return ArrayValue(items...), nil
	}

	return Value{}, errors.NewMalformedInputError("unsupported TOML value %T at %s", x, strings.Join(path, "."))
}

// orderedKeys sorts keys by document position; keys the metadata does not
// know about (inline tables inside arrays) follow in lexical order.
func orderedKeys(m map[string]any, path []string, ranks map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	prefix := strings.Join(path, "\x00")
	if prefix != "" {
		prefix += "\x00"
	}
	rank := func(k string) int {
		if r, ok := ranks[prefix+k]; ok {
			return r
		}
		return len(ranks)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}
