package evaluator_test

import (
	"errors"
	"testing"

	"github.com/ConradIrwin/treejson/evaluator"
)

func TestTOML(t *testing.T) {
	for _, test := range []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "document order",
			in: `
title = "x"

[servers.beta]
ip = "10.0.0.2"

[servers.alpha]
ip = "10.0.0.1"

[database]
ports = [8000, 8001]
enabled = true
ratio = 0.5
`,
			out: `{"title":"x","servers":{"beta":{"ip":"10.0.0.2"},"alpha":{"ip":"10.0.0.1"}},"database":{"ports":[8000,8001],"enabled":true,"ratio":0.5}}`,
		},
		{
			name: "array of tables",
			in: `
[[fruit]]
name = "apple"
colour = "red"

[[fruit]]
name = "banana"
`,
			out: `{"fruit":[{"name":"apple","colour":"red"},{"name":"banana"}]}`,
		},
		{
			name: "dates and times",
			in: `
odt = 1979-05-27T07:32:00Z
ldt = 1979-05-27T07:32:00
ld = 1979-05-27
lt = 07:32:00
`,
			out: `{"odt":"1979-05-27T07:32:00Z","ldt":"1979-05-27T07:32:00","ld":"1979-05-27","lt":"07:32:00"}`,
		},
		{
			name: "empty",
			in:   "",
			out:  `{}`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			v, err := evaluator.EvaluateTOML(test.in)
			if err != nil {
				t.Fatalf("failed to evaluate: %v", err)
			}
			if got := toJSON(v); got != test.out {
				t.Fatalf("expected\n%s\ngot\n%s", test.out, got)
			}
		})
	}
}

func TestTOMLErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		in   string
		lno  int
	}{
		{name: "unterminated string", in: "a = \"open\n", lno: 1},
		{name: "duplicate key", in: "a = 1\na = 2\n", lno: 2},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := evaluator.EvaluateTOML(test.in)
			var evalErr *evaluator.Error
			if !errors.As(err, &evalErr) {
				t.Fatalf("expected an *evaluator.Error, got %v", err)
			}
			if evalErr.Format != "toml" || evalErr.Lno != test.lno {
				t.Fatalf("expected toml error on line %d, got %s error on line %d: %v", test.lno, evalErr.Format, evalErr.Lno, err)
			}
		})
	}
}
