// Package evaluator turns configuration source text into [treejson.Value]
// graphs.
//
// Each supported format has an [Evaluator]. All of them preserve the order in
// which keys appear in the source, so serializing the result lists properties
// in document order.
//
//	ev, err := evaluator.For("yaml")
//	root, err := ev.Evaluate(source)
//	text, err := treejson.Serialize(root, 0)
//
// Errors from an evaluator are returned as an [*Error], which carries the
// line number when the underlying parser reports one.
package evaluator

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ConradIrwin/treejson"
)

// An Evaluator converts source text into a value graph.
type Evaluator interface {
	Evaluate(source string) (treejson.Value, error)
}

// Func adapts an ordinary function to the [Evaluator] interface.
type Func func(source string) (treejson.Value, error)

// Evaluate calls f(source).
func (f Func) Evaluate(source string) (treejson.Value, error) {
	return f(source)
}

// Error reports a problem evaluating source text.
// Lno is the 1-based line number, or 0 if it is not known.
type Error struct {
	Format string
	Lno    int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Lno > 0 {
		return fmt.Sprintf("%d: %s", e.Lno, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

type format struct {
	name       string
	extensions []string
	evaluator  Evaluator
}

var formats = []format{
	{"conl", []string{".conl"}, Func(EvaluateCONL)},
	{"yaml", []string{".yaml", ".yml"}, Func(EvaluateYAML)},
	{"toml", []string{".toml"}, Func(EvaluateTOML)},
	{"json", []string{".json"}, Func(EvaluateJSON)},
}

// Formats returns the names of the supported formats.
func Formats() []string {
	names := []string{}
	for _, f := range formats {
		names = append(names, f.name)
	}
	return names
}

// Extensions returns the file extensions recognised for a format.
func Extensions(name string) []string {
	for _, f := range formats {
		if f.name == name {
			return slices.Clone(f.extensions)
		}
	}
	return nil
}

// For returns the evaluator for the named format. Names are case-insensitive,
// and "yml" is accepted for "yaml".
func For(name string) (Evaluator, error) {
	name = strings.ToLower(name)
	if name == "yml" {
		name = "yaml"
	}
	for _, f := range formats {
		if f.name == name {
			return f.evaluator, nil
		}
	}
	return nil, fmt.Errorf("unknown format %q (expected %s)", name, strings.Join(Formats(), ", "))
}

// Detect guesses the format of a file from its extension.
func Detect(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range formats {
		if slices.Contains(f.extensions, ext) {
			return f.name, true
		}
	}
	return "", false
}
