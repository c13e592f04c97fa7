package treejson

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnsupportedValueKind is returned when a node is not one of the
	// variants of [Value] (for example a nil interface), or when [From] meets
	// a Go value with no Value representation.
	ErrUnsupportedValueKind = errors.New("unsupported value kind")

	// ErrDepthExceeded is returned when containers nest deeper than
	// [Serializer.MaxDepth].
	ErrDepthExceeded = errors.New("maximum depth exceeded")

	// ErrNegativeIndent is returned for a negative base indent.
	ErrNegativeIndent = errors.New("negative indent")
)

// A Serializer converts [Value] graphs to indented JSON-like text.
//
// The zero value reproduces the historical output exactly: strings and
// property names are written between quotes without escaping, and there is
// no depth limit.
type Serializer struct {
	// EscapeStrings applies JSON escaping to strings and property names, so
	// that values containing quotes, backslashes, or control characters still
	// produce valid JSON. This changes the output for such values.
	EscapeStrings bool

	// MaxDepth limits how deeply objects and lists may nest. The root
	// container is at depth 1. Zero means no limit.
	MaxDepth int
}

// Serialize renders v with the default [Serializer].
//
// baseIndent is the number of spaces before the root's closing brace or
// bracket; members of the root object are indented by baseIndent+2 and every
// nested object adds two more.
//
//	s, err := treejson.Serialize(root, 0)
func Serialize(v Value, baseIndent int) (string, error) {
	return Serializer{}.Serialize(v, baseIndent)
}

// Serialize renders v as described on the package-level [Serialize].
// If an error occurs no output is returned.
func (s Serializer) Serialize(v Value, baseIndent int) (string, error) {
	var b strings.Builder
	if err := s.write(&b, v, baseIndent); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write renders v to w. Nothing is written if v cannot be serialized.
func (s Serializer) Write(w io.Writer, v Value, baseIndent int) error {
	str, err := s.Serialize(v, baseIndent)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, str)
	return err
}

// frame is an object or list whose children are still being written.
type frame struct {
	isObject bool
	object   *Object
	list     List
	next     int
	indent   int
	path     string
}

func (f *frame) len() int {
	if f.isObject {
		return f.object.Len()
	}
	return len(f.list)
}

func (s Serializer) write(b *strings.Builder, root Value, baseIndent int) error {
	if baseIndent < 0 {
		return fmt.Errorf("%d: %w", baseIndent, ErrNegativeIndent)
	}

	stack := []*frame{}

	// open writes a scalar in full, or the opening of a non-empty container
	// and pushes a frame for its children.
	open := func(v Value, indent int, path string) error {
		switch v := v.(type) {
		case *Object, List:
			if s.MaxDepth > 0 && len(stack)+1 > s.MaxDepth {
				return fmt.Errorf("%s: %w (%d)", displayPath(path), ErrDepthExceeded, s.MaxDepth)
			}
			f := &frame{indent: indent, path: path}
			if o, ok := v.(*Object); ok {
				f.isObject = true
				f.object = o
				b.WriteString("{\n")
			} else {
				f.list = v.(List)
				b.WriteString("[\n")
			}
			if f.len() == 0 {
				s.close(b, f)
				return nil
			}
			stack = append(stack, f)
		case String:
			s.writeString(b, string(v))
		case Integer:
			b.WriteString(strconv.FormatInt(int64(v), 10))
		case Float:
			b.WriteString(formatFloat(float64(v)))
		case Boolean:
			b.WriteString(strconv.FormatBool(bool(v)))
		case Null:
			b.WriteString("null")
		default:
			return fmt.Errorf("%s: %w %T", displayPath(path), ErrUnsupportedValueKind, v)
		}
		return nil
	}

	if err := open(root, baseIndent, ""); err != nil {
		return err
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.next == f.len() {
			stack = stack[:len(stack)-1]
			b.WriteString("\n")
			s.close(b, f)
			continue
		}
		if f.next > 0 {
			b.WriteString(",\n")
		}

		var child Value
		var path string
		if f.isObject {
			m := f.object.member(f.next)
			child = m.Value
			path = joinPath(f.path, m.Name)
			writeIndent(b, f.indent+2)
			s.writeString(b, m.Name)
			b.WriteString(": ")
		} else {
			child = f.list[f.next]
			path = f.path + "[" + strconv.Itoa(f.next) + "]"
			writeIndent(b, f.indent)
		}
		f.next++

		if err := open(child, f.indent+2, path); err != nil {
			return err
		}
	}
	return nil
}

// close writes the closing brace or bracket of f. List items share the
// list's own indent n, and the closing bracket lines up with them at n,
// not at n-2 where older renderers of this layout put it.
func (s Serializer) close(b *strings.Builder, f *frame) {
	writeIndent(b, f.indent)
	if f.isObject {
		b.WriteString("}")
	} else {
		b.WriteString("]")
	}
}

func (s Serializer) writeString(b *strings.Builder, str string) {
	if !s.EscapeStrings {
		b.WriteString("\"")
		b.WriteString(str)
		b.WriteString("\"")
		return
	}
	b.WriteString(quoteJSON(str))
}

func writeIndent(b *strings.Builder, n int) {
	for range n {
		b.WriteByte(' ')
	}
}

func quoteJSON(s string) string {
	var r strings.Builder
	r.WriteByte('"')
	for i := 0; i < len(s); {
		c, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case c == utf8.RuneError && size == 1:
			r.WriteString(`\ufffd`)
		case c == '\\':
			r.WriteString(`\\`)
		case c == '"':
			r.WriteString(`\"`)
		case c == '\n':
			r.WriteString(`\n`)
		case c == '\r':
			r.WriteString(`\r`)
		case c == '\t':
			r.WriteString(`\t`)
		case c == '\b':
			r.WriteString(`\b`)
		case c == '\f':
			r.WriteString(`\f`)
		case c < 0x20 || c == 0x7f || c == '\u2028' || c == '\u2029':
			fmt.Fprintf(&r, `\u%04x`, c)
		default:
			r.WriteString(s[i : i+size])
		}
		i += size
	}
	r.WriteByte('"')
	return r.String()
}

// formatFloat uses the shortest representation that round-trips, switching
// to exponent form for very large or very small magnitudes. Integral values
// keep a ".0" so they remain distinguishable from integers.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// 1e-07 -> 1e-7
		if n := len(s); n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
		return s
	}
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
