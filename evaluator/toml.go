package evaluator

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ConradIrwin/treejson"
)

// EvaluateTOML reads a TOML document.
//
// Tables keep the order in which their keys first appear in the source;
// keys the decoder cannot place (such as those of inline tables nested in
// arrays) follow in name order. Date and time values become strings in
// their RFC 3339 form, with local dates and times left without an offset.
func EvaluateTOML(source string) (treejson.Value, error) {
	var doc map[string]any
	md, err := toml.Decode(source, &doc)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, &Error{Format: "toml", Lno: perr.Position.Line, Msg: perr.Message, Err: err}
		}
		return nil, &Error{Format: "toml", Err: err}
	}

	t := tomlTree{order: map[string]int{}}
	for i, key := range md.Keys() {
		// tables created implicitly by a dotted header take the position of
		// their first descendant
		for n := range key {
			path := strings.Join(key[:n+1], "\x00")
			if _, ok := t.order[path]; !ok {
				t.order[path] = i
			}
		}
	}
	return t.table(doc, nil)
}

type tomlTree struct {
	order map[string]int
}

func (t tomlTree) position(path []string) int {
	if i, ok := t.order[strings.Join(path, "\x00")]; ok {
		return i
	}
	return math.MaxInt
}

func (t tomlTree) table(m map[string]any, path []string) (*treejson.Object, error) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		pa := t.position(append(slices.Clip(path), a))
		pb := t.position(append(slices.Clip(path), b))
		if pa != pb {
			if pa < pb {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})

	obj := &treejson.Object{}
	for _, key := range keys {
		v, err := t.value(m[key], append(slices.Clip(path), key))
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	return obj, nil
}

func (t tomlTree) value(v any, path []string) (treejson.Value, error) {
	switch v := v.(type) {
	case map[string]any:
		return t.table(v, path)
	case []map[string]any:
		list := make(treejson.List, 0, len(v))
		for _, m := range v {
			obj, err := t.table(m, path)
			if err != nil {
				return nil, err
			}
			list = append(list, obj)
		}
		return list, nil
	case []any:
		list := make(treejson.List, 0, len(v))
		for _, item := range v {
			value, err := t.value(item, path)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil
	case string:
		return treejson.String(v), nil
	case int64:
		return treejson.Integer(v), nil
	case float64:
		return treejson.Float(v), nil
	case bool:
		return treejson.Boolean(v), nil
	case time.Time:
		return treejson.String(formatTOMLTime(v)), nil
	}
	return nil, &Error{Format: "toml", Msg: fmt.Sprintf("%s: unexpected %T", strings.Join(path, "."), v)}
}

// formatTOMLTime formats a decoded date or time. The decoder marks local
// values with the fixed zones "datetime-local", "date-local" and "time-local".
func formatTOMLTime(t time.Time) string {
	switch t.Location().String() {
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	case "date-local":
		return t.Format("2006-01-02")
	case "time-local":
		return t.Format("15:04:05.999999999")
	}
	return t.Format(time.RFC3339Nano)
}
