package treejson

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies which variant of [Value] a node is.
type Kind int8

// These kinds are returned by [Value.Kind].
const (
	ObjectKind = Kind(iota + 1)
	ListKind
	StringKind
	IntegerKind
	FloatKind
	BooleanKind
	NullKind
)

func (k Kind) String() string {
	switch k {
	case ObjectKind:
		return "Object"
	case ListKind:
		return "List"
	case StringKind:
		return "String"
	case IntegerKind:
		return "Integer"
	case FloatKind:
		return "Float"
	case BooleanKind:
		return "Boolean"
	case NullKind:
		return "Null"
	default:
		return "Invalid"
	}
}

func (k Kind) GoString() string {
	return k.String()
}

// A Value is a single node in a configuration graph: an [*Object], a [List],
// or one of the scalars [String], [Integer], [Float], [Boolean] and [Null].
//
// The set of implementations is closed; types outside this package cannot
// satisfy Value except by embedding one of the variants, and the serializer
// rejects those with [ErrUnsupportedValueKind].
type Value interface {
	Kind() Kind
	isValue()
}

type (
	// String is a string scalar.
	String string
	// Integer is a whole-number scalar.
	Integer int64
	// Float is a floating point scalar.
	Float float64
	// Boolean is a true/false scalar.
	Boolean bool
	// Null is the absence of a value.
	Null struct{}
	// List is an ordered sequence of values of any kind.
	List []Value
)

func (String) Kind() Kind  { return StringKind }
func (Integer) Kind() Kind { return IntegerKind }
func (Float) Kind() Kind   { return FloatKind }
func (Boolean) Kind() Kind { return BooleanKind }
func (Null) Kind() Kind    { return NullKind }
func (List) Kind() Kind    { return ListKind }
func (*Object) Kind() Kind { return ObjectKind }

func (String) isValue()  {}
func (Integer) isValue() {}
func (Float) isValue()   {}
func (Boolean) isValue() {}
func (Null) isValue()    {}
func (List) isValue()    {}
func (*Object) isValue() {}

// Member is a single name/value pair of an [Object].
type Member struct {
	Name  string
	Value Value
}

// An Object maps property names to values, remembering the order in which
// names were first set. The zero value is an empty object ready to use.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject returns an object containing the given members in order.
// Later members replace earlier ones with the same name.
func NewObject(members ...Member) *Object {
	o := &Object{}
	for _, m := range members {
		o.Set(m.Name, m.Value)
	}
	return o
}

// Set stores v under name. A new name is appended after the existing members;
// an existing name keeps its position and has its value replaced.
func (o *Object) Set(name string, v Value) {
	if i, ok := o.index[name]; ok {
		o.members[i].Value = v
		return
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[name] = len(o.members)
	o.members = append(o.members, Member{Name: name, Value: v})
}

// Get returns the value stored under name.
func (o *Object) Get(name string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[name]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Delete removes name from the object, preserving the order of the rest.
func (o *Object) Delete(name string) {
	i, ok := o.index[name]
	if !ok {
		return
	}
	o.members = slices.Delete(o.members, i, i+1)
	delete(o.index, name)
	for j := i; j < len(o.members); j++ {
		o.index[o.members[j].Name] = j
	}
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Keys returns the member names in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	for name := range o.All() {
		keys = append(keys, name)
	}
	return keys
}

// All iterates over the members in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for _, m := range o.members {
			if !yield(m.Name, m.Value) {
				return
			}
		}
	}
}

func (o *Object) member(i int) Member {
	return o.members[i]
}

// Lookup finds the value at a dot-separated path below v.
// Each segment names an object member, or indexes a list in decimal.
// An empty path returns v itself.
//
//	Lookup(root, "application.database.port")
//	Lookup(root, "servers.0.host")
func Lookup(v Value, path string) (Value, bool) {
	if path == "" {
		return v, v != nil
	}
	for segment := range strings.SplitSeq(path, ".") {
		switch node := v.(type) {
		case *Object:
			next, ok := node.Get(segment)
			if !ok {
				return nil, false
			}
			v = next
		case List:
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			v = node[i]
		default:
			return nil, false
		}
	}
	return v, true
}
