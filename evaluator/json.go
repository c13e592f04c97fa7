package evaluator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ConradIrwin/treejson"
)

// EvaluateJSON reads a JSON document, keeping object members in source
// order. Numbers without a fraction or exponent that fit in 64 bits become
// integers; other numbers become floats.
func EvaluateJSON(source string) (treejson.Value, error) {
	dec := json.NewDecoder(strings.NewReader(source))
	dec.UseNumber()

	j := &jsonReader{dec: dec, source: source}
	v, err := j.value()
	if err != nil {
		return nil, j.error(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, j.error(errors.New("unexpected data after top-level value"))
	}
	return v, nil
}

// maxJSONDepth matches the nesting limit of encoding/json's own scanner,
// which Decoder.Token does not apply.
const maxJSONDepth = 10000

type jsonReader struct {
	dec    *json.Decoder
	source string
	depth  int
}

// error attaches the line of the decoder's current offset.
func (j *jsonReader) error(err error) error {
	offset := j.dec.InputOffset()
	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		offset = serr.Offset
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = errors.New("unexpected end of input")
	}
	offset = min(max(offset, 0), int64(len(j.source)))
	lno := strings.Count(j.source[:offset], "\n") + 1
	return &Error{Format: "json", Lno: lno, Msg: err.Error(), Err: err}
}

func (j *jsonReader) value() (treejson.Value, error) {
	tok, err := j.dec.Token()
	if err != nil {
		return nil, err
	}
	switch tok := tok.(type) {
	case json.Delim:
		j.depth++
		defer func() { j.depth-- }()
		if j.depth > maxJSONDepth {
			return nil, errors.New("exceeded max depth")
		}
		if tok == '{' {
			return j.object()
		}
		return j.list()
	case string:
		return treejson.String(tok), nil
	case json.Number:
		if i, err := tok.Int64(); err == nil {
			return treejson.Integer(i), nil
		}
		f, err := tok.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %s", tok)
		}
		return treejson.Float(f), nil
	case bool:
		return treejson.Boolean(tok), nil
	case nil:
		return treejson.Null{}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func (j *jsonReader) object() (treejson.Value, error) {
	obj := &treejson.Object{}
	for j.dec.More() {
		tok, err := j.dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)
		if _, dup := obj.Get(key); dup {
			return nil, fmt.Errorf("duplicate key %s", key)
		}
		v, err := j.value()
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	if _, err := j.dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func (j *jsonReader) list() (treejson.Value, error) {
	list := treejson.List{}
	for j.dec.More() {
		v, err := j.value()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	if _, err := j.dec.Token(); err != nil {
		return nil, err
	}
	return list, nil
}
