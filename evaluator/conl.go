package evaluator

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ConradIrwin/treejson"
)

// EvaluateCONL reads a CONL document (https://conl.dev).
//
// Maps become objects and lists become lists, in document order. Quoted
// scalars are always strings; unquoted scalars are typed by inference, so
// `port = 5432` is an integer while `port = "5432"` is a string. A key or
// list item with no value becomes null.
//
// The returned error is an [*Error] with the line number of the problem.
func EvaluateCONL(source string) (treejson.Value, error) {
	var r conlReader
	return r.read(source)
}

type sectionKind int8

const (
	unknownSection = sectionKind(iota)
	mapSection
	listSection
)

// section collects the entries at one level of indentation. A nil value is
// an entry whose value has not been seen yet: it may still gain an indented
// child section, and otherwise becomes null.
type section struct {
	indent string
	kind   sectionKind
	keys   []string
	seen   map[string]bool
	values []treejson.Value
}

func (s *section) awaitingValue() bool {
	return len(s.values) > 0 && s.values[len(s.values)-1] == nil
}

func (s *section) setValue(v treejson.Value) {
	s.values[len(s.values)-1] = v
}

func (s *section) value() treejson.Value {
	if s.awaitingValue() {
		s.setValue(treejson.Null{})
	}
	if s.kind == listSection {
		return treejson.List(s.values)
	}
	obj := &treejson.Object{}
	for i, key := range s.keys {
		obj.Set(key, s.values[i])
	}
	return obj
}

type multiline struct {
	lno    int
	prefix string
	lines  []string
}

type conlReader struct {
	stack     []*section
	multiline *multiline
}

var lineRegexp = regexp.MustCompile("\r\n|\r|\n")

func conlError(lno int, msg string) error {
	return &Error{Format: "conl", Lno: lno, Msg: msg}
}

func (r *conlReader) top() *section {
	return r.stack[len(r.stack)-1]
}

// pop closes the innermost section, handing its value to the entry that
// introduced it.
func (r *conlReader) pop() {
	v := r.top().value()
	r.stack = r.stack[:len(r.stack)-1]
	r.top().setValue(v)
}

func (r *conlReader) read(source string) (treejson.Value, error) {
	r.stack = []*section{{}}

	for i, content := range lineRegexp.Split(source, -1) {
		lno := i + 1
		if !utf8.ValidString(content) {
			return nil, conlError(lno, "invalid UTF-8")
		}
		rest := strings.TrimLeft(content, " \t")
		indent := content[:len(content)-len(rest)]

		if r.multiline != nil {
			consumed, err := r.continueMultiline(content, indent, rest)
			if err != nil {
				return nil, err
			}
			if consumed {
				continue
			}
		}

		if rest == "" || strings.HasPrefix(rest, ";") {
			continue
		}

		for !strings.HasPrefix(indent, r.top().indent) {
			r.pop()
		}
		if indent != r.top().indent {
			if !r.top().awaitingValue() {
				return nil, conlError(lno, "unexpected indent")
			}
			r.stack = append(r.stack, &section{indent: indent})
		}

		if err := r.entry(lno, rest); err != nil {
			return nil, err
		}
	}

	if r.multiline != nil {
		if r.multiline.prefix == "" {
			return nil, conlError(r.multiline.lno, "missing multiline value")
		}
		r.finishMultiline()
	}
	for len(r.stack) > 1 {
		r.pop()
	}
	return r.top().value(), nil
}

// entry reads a single "key = value" or "= value" line.
func (r *conlReader) entry(lno int, rest string) error {
	current := r.top()

	if item, found := strings.CutPrefix(rest, "="); found {
		if current.kind == mapSection {
			return conlError(lno, "unexpected list item")
		}
		if current.awaitingValue() {
			current.setValue(treejson.Null{})
		}
		current.kind = listSection
		current.values = append(current.values, nil)
		rest = strings.TrimLeft(item, " \t")
	} else {
		literal, after := splitLiteral(rest, true)
		key, _, msg := decodeLiteral(literal)
		if msg != "" {
			return conlError(lno, msg)
		}
		if current.kind == listSection {
			return conlError(lno, "unexpected map key")
		}
		if current.seen[key] {
			return conlError(lno, "duplicate key "+key)
		}
		if current.seen == nil {
			current.seen = map[string]bool{}
		}
		if current.awaitingValue() {
			current.setValue(treejson.Null{})
		}
		current.kind = mapSection
		current.seen[key] = true
		current.keys = append(current.keys, key)
		current.values = append(current.values, nil)
		rest = after
	}

	if rest == "" || strings.HasPrefix(rest, ";") {
		return nil
	}
	if strings.HasPrefix(rest, `"""`) {
		r.multiline = &multiline{lno: lno}
		return nil
	}

	literal, _ := splitLiteral(rest, false)
	value, quoted, msg := decodeLiteral(literal)
	if msg != "" {
		return conlError(lno, msg)
	}
	if quoted {
		current.setValue(treejson.String(value))
	} else {
		current.setValue(inferScalar(value))
	}
	return nil
}

// continueMultiline feeds a line to the pending multiline value. It reports
// whether the line belonged to the value; if not, the value is complete and
// the line must be read normally.
func (r *conlReader) continueMultiline(content, indent, rest string) (bool, error) {
	m := r.multiline
	if m.prefix == "" {
		if rest == "" {
			return true, nil
		}
		base := r.top().indent
		if len(indent) > len(base) && strings.HasPrefix(indent, base) {
			m.prefix = indent
			m.lines = append(m.lines, rest)
			return true, nil
		}
		return false, conlError(m.lno, "missing multiline value")
	}
	if after, found := strings.CutPrefix(content, m.prefix); found {
		m.lines = append(m.lines, after)
		return true, nil
	}
	if rest == "" {
		m.lines = append(m.lines, "")
		return true, nil
	}
	r.finishMultiline()
	return false, nil
}

func (r *conlReader) finishMultiline() {
	value := strings.TrimRight(strings.Join(r.multiline.lines, "\n"), " \t\r\n")
	r.top().setValue(treejson.String(value))
	r.multiline = nil
}

// splitLiteral separates the key (or value) at the start of input from the
// remainder of the line. For keys the "=" separator is consumed; a trailing
// comment is left in the remainder.
func splitLiteral(input string, key bool) (literal, rest string) {
	if strings.HasPrefix(input, `"`) {
		escaped := false
		for i := 1; i < len(input); i++ {
			switch {
			case escaped:
				escaped = false
			case input[i] == '\\':
				escaped = true
			case input[i] == '"':
				tail, remainder := splitUnquoted(input[i+1:], key)
				return input[:i+1] + tail, remainder
			}
		}
		return input, ""
	}
	return splitUnquoted(input, key)
}

func splitUnquoted(input string, key bool) (string, string) {
	stops := ";"
	if key {
		stops = "=;"
	}
	i := strings.IndexAny(input, stops)
	if i < 0 {
		return strings.TrimRight(input, " \t"), ""
	}
	if input[i] == '=' {
		return strings.TrimRight(input[:i], " \t"), strings.TrimLeft(input[i+1:], " \t")
	}
	return strings.TrimRight(input[:i], " \t"), input[i:]
}

// decodeLiteral unquotes a literal if it is quoted. On failure msg describes
// the problem.
func decodeLiteral(input string) (value string, quoted bool, msg string) {
	if !strings.HasPrefix(input, `"`) {
		return input, false, ""
	}

	end := -1
	escaped := false
	for i := 1; i < len(input) && end < 0; i++ {
		switch {
		case escaped:
			escaped = false
		case input[i] == '\\':
			escaped = true
		case input[i] == '"':
			end = i
		}
	}
	if end < 0 {
		return "", true, "unclosed quotes"
	}
	if end != len(input)-1 {
		return "", true, "characters after quotes"
	}

	body := input[1:end]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] != '\\' {
			b.WriteByte(body[i])
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '"', '\\':
			b.WriteByte(body[i])
		case '{':
			n := strings.IndexByte(body[i:], '}')
			if n < 0 {
				return "", true, "invalid escape code: \\" + body[i:]
			}
			code, err := strconv.ParseUint(body[i+1:i+n], 16, 32)
			if n < 2 || n > 9 || err != nil || !utf8.ValidRune(rune(code)) {
				return "", true, "invalid escape code: \\" + body[i:i+n+1]
			}
			b.WriteRune(rune(code))
			i += n
		default:
			_, size := utf8.DecodeRuneInString(body[i:])
			return "", true, "invalid escape code: \\" + body[i:i+size]
		}
	}
	return b.String(), true, ""
}
