package evaluator_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ConradIrwin/treejson/evaluator"
)

func TestYAML(t *testing.T) {
	for _, test := range []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "document order and scalars",
			in:   "z: 1\na: 2.5\nb: \"3\"\nc: ~\ne: true\n",
			out:  `{"z":1,"a":2.5,"b":"3","c":null,"e":true}`,
		},
		{
			name: "merge keys",
			in: `
defaults: &defaults
  adapter: postgres
  host: localhost
development:
  <<: *defaults
  host: dev.local
  database: dev
`,
			out: `{"defaults":{"adapter":"postgres","host":"localhost"},"development":{"adapter":"postgres","host":"dev.local","database":"dev"}}`,
		},
		{
			name: "aliases",
			in:   "a: &x [1, 2]\nb: *x\n",
			out:  `{"a":[1,2],"b":[1,2]}`,
		},
		{
			name: "timestamps stay as written",
			in:   "when: 2024-11-01T16:00:00Z\n",
			out:  `{"when":"2024-11-01T16:00:00Z"}`,
		},
		{
			name: "root list",
			in:   "- a\n- b\n",
			out:  `["a","b"]`,
		},
		{
			name: "empty",
			in:   "",
			out:  `{}`,
		},
		{
			name: "comment only",
			in:   "# nothing here\n",
			out:  `{}`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			v, err := evaluator.EvaluateYAML(test.in)
			if err != nil {
				t.Fatalf("failed to evaluate: %v", err)
			}
			if got := toJSON(v); got != test.out {
				t.Fatalf("expected\n%s\ngot\n%s", test.out, got)
			}
		})
	}
}

// laughs builds a document whose anchors each repeat the previous one ten
// times, so that full expansion would produce 10^levels strings.
func laughs(levels int) string {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= levels; i++ {
		prev := fmt.Sprintf("*l%d", i-1)
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.TrimSuffix(strings.Repeat(prev+", ", 10), ", "))
	}
	return b.String()
}

func TestYAMLErrors(t *testing.T) {
	for _, test := range []struct {
		name   string
		in     string
		lno    int
		msg    string
		suffix string
	}{
		{
			name: "alias cycle",
			in:   "a: &x [*x]\n",
			lno:  1,
			msg:  "1: alias cycle",
		},
		{
			name: "merge cycle",
			in:   "m: &m\n  k: v\n  <<: *m\n",
			lno:  3,
			msg:  "3: alias cycle",
		},
		{
			name:   "alias expansion",
			in:     laughs(9),
			suffix: ": too many nodes after alias expansion",
		},
		{
			name: "duplicate key",
			in:   "a: 1\na: 2\n",
			lno:  2,
			msg:  "2: duplicate key a",
		},
		{
			name: "syntax",
			in:   "a: b: c\n",
			lno:  1,
			msg:  "1: mapping values are not allowed in this context",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := evaluator.EvaluateYAML(test.in)
			var evalErr *evaluator.Error
			if !errors.As(err, &evalErr) {
				t.Fatalf("expected an *evaluator.Error, got %v", err)
			}
			if evalErr.Format != "yaml" || (test.lno > 0 && evalErr.Lno != test.lno) {
				t.Fatalf("expected yaml error on line %d, got %s error on line %d", test.lno, evalErr.Format, evalErr.Lno)
			}
			if test.msg != "" && err.Error() != test.msg {
				t.Fatalf("expected %q, got %q", test.msg, err.Error())
			}
			if !strings.HasSuffix(err.Error(), test.suffix) {
				t.Fatalf("expected %q to end with %q", err.Error(), test.suffix)
			}
		})
	}
}
