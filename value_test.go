package treejson_test

import (
	"testing"

	"github.com/ConradIrwin/treejson"
)

func TestLookup(t *testing.T) {
	root := obj(
		"application", obj(
			"name", treejson.String("MyApp"),
			"servers", treejson.List{
				obj("host", treejson.String("a.example.com")),
				obj("host", treejson.String("b.example.com")),
			},
		),
		"dotted.key", treejson.Integer(1),
	)

	for _, test := range []struct {
		path string
		want treejson.Value
		ok   bool
	}{
		{path: "application.name", want: treejson.String("MyApp"), ok: true},
		{path: "application.servers.1.host", want: treejson.String("b.example.com"), ok: true},
		{path: "application.servers.2", ok: false},
		{path: "application.servers.-1", ok: false},
		{path: "application.servers.x", ok: false},
		{path: "application.name.length", ok: false},
		{path: "missing", ok: false},
		{path: "dotted.key", ok: false},
	} {
		t.Run(test.path, func(t *testing.T) {
			got, ok := treejson.Lookup(root, test.path)
			if ok != test.ok {
				t.Fatalf("expected ok=%v, got %v", test.ok, ok)
			}
			if ok && got != test.want {
				t.Fatalf("expected %#v, got %#v", test.want, got)
			}
		})
	}

	if got, ok := treejson.Lookup(root, ""); !ok || got != treejson.Value(root) {
		t.Fatalf("expected the empty path to return the root")
	}
}

func TestKindString(t *testing.T) {
	for _, test := range []struct {
		v    treejson.Value
		want string
	}{
		{&treejson.Object{}, "Object"},
		{treejson.List{}, "List"},
		{treejson.String(""), "String"},
		{treejson.Integer(0), "Integer"},
		{treejson.Float(0), "Float"},
		{treejson.Boolean(false), "Boolean"},
		{treejson.Null{}, "Null"},
	} {
		if got := test.v.Kind().String(); got != test.want {
			t.Errorf("expected %s, got %s", test.want, got)
		}
	}
}
