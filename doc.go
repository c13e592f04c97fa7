// Package treejson renders configuration object graphs as indented,
// JSON-like text.
//
// A graph is built from [Value] nodes: objects ([*Object]) that remember the
// order their properties were set in, lists ([List]), and the scalars
// [String], [Integer], [Float], [Boolean] and [Null]. Graphs usually come from
// an evaluator (see the evaluator subpackage), from [From], or are built by
// hand:
//
//	person := treejson.NewObject(
//	  treejson.Member{Name: "name", Value: treejson.String("Alice")},
//	  treejson.Member{Name: "age", Value: treejson.Integer(30)},
//	  treejson.Member{Name: "hobbies", Value: treejson.List{
//	    treejson.String("reading"),
//	    treejson.String("hiking"),
//	  }},
//	)
//	text, err := treejson.Serialize(person, 0)
//
// which produces
//
//	{
//	  "name": "Alice",
//	  "age": 30,
//	  "hobbies": [
//	  "reading",
//	  "hiking"
//	  ]
//	}
//
// Object members are indented two spaces further than their object, while
// list items share the indentation of the line that opened the list. A
// list's closing bracket is written at that same indentation, level with its
// items, rather than two spaces further out.
//
// By default strings are written between double quotes exactly as they are,
// so a string containing a quote or a newline produces text that is not
// valid JSON. Set [Serializer.EscapeStrings] to escape them.
//
// Serialization does not recurse on the Go call stack, so deeply nested input
// cannot overflow it; [Serializer.MaxDepth] can additionally reject input
// that nests too deeply.
package treejson
