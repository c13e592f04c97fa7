package evaluator

import (
	"strconv"
	"strings"

	"github.com/ConradIrwin/treejson"
)

// inferScalar gives an unquoted CONL scalar a type: booleans, null, integers
// and floats are recognised, and anything else stays a string.
func inferScalar(s string) treejson.Value {
	switch s {
	case "true":
		return treejson.Boolean(true)
	case "false":
		return treejson.Boolean(false)
	case "null":
		return treejson.Null{}
	}
	if !strings.ContainsAny(s, "0123456789") {
		return treejson.String(s)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return treejson.Integer(i)
	}
	if strings.ContainsAny(s, "xXoObB_") {
		return treejson.String(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return treejson.Float(f)
	}
	return treejson.String(s)
}
