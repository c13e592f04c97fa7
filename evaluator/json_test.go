package evaluator_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ConradIrwin/treejson/evaluator"
)

func TestJSON(t *testing.T) {
	for _, test := range []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "member order and scalars",
			in:   `{"z": 1, "a": 1.5, "n": null, "t": true, "s": "x", "e": 1e2, "l": [], "o": {}}`,
			out:  `{"z":1,"a":1.5,"n":null,"t":true,"s":"x","e":100.0,"l":[],"o":{}}`,
		},
		{
			name: "integer overflow becomes float",
			in:   `[9223372036854775807, 9223372036854775808]`,
			out:  `[9223372036854775807,9223372036854775808.0]`,
		},
		{
			name: "scalar document",
			in:   `"hello"`,
			out:  `"hello"`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			v, err := evaluator.EvaluateJSON(test.in)
			if err != nil {
				t.Fatalf("failed to evaluate: %v", err)
			}
			if got := toJSON(v); got != test.out {
				t.Fatalf("expected\n%s\ngot\n%s", test.out, got)
			}
		})
	}
}

func TestJSONErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		in   string
		lno  int
		msg  string
	}{
		{name: "duplicate key", in: `{"a": 1, "a": 2}`, lno: 1, msg: "1: duplicate key a"},
		{name: "trailing comma", in: "{\n\"a\": 1,\n}", lno: 3},
		{name: "trailing data", in: "{}\n{}", lno: 2, msg: "2: unexpected data after top-level value"},
		{name: "empty", in: "", lno: 1, msg: "1: unexpected end of input"},
		{
			name: "nesting",
			in:   strings.Repeat("[", 20000) + strings.Repeat("]", 20000),
			lno:  1,
			msg:  "1: exceeded max depth",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := evaluator.EvaluateJSON(test.in)
			var evalErr *evaluator.Error
			if !errors.As(err, &evalErr) {
				t.Fatalf("expected an *evaluator.Error, got %v", err)
			}
			if evalErr.Format != "json" || evalErr.Lno != test.lno {
				t.Fatalf("expected json error on line %d, got %s error on line %d: %v", test.lno, evalErr.Format, evalErr.Lno, err)
			}
			if test.msg != "" && err.Error() != test.msg {
				t.Fatalf("expected %q, got %q", test.msg, err.Error())
			}
		})
	}
}
