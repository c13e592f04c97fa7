package evaluator

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ConradIrwin/treejson"
)

// EvaluateYAML reads the first document of a YAML stream.
//
// Mappings keep their key order. Aliases are expanded and "<<" merge keys
// are applied, with explicit keys taking precedence over merged ones.
// Timestamps are kept as strings. An empty document is an empty object.
func EvaluateYAML(source string) (treejson.Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(source), &root); err != nil {
		return nil, yamlError(err)
	}
	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return &treejson.Object{}, nil
		}
		node = node.Content[0]
	}
	if node.Kind == 0 {
		return &treejson.Object{}, nil
	}
	return decodeYAMLNode(node)
}

var yamlLineRegexp = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

func yamlError(err error) error {
	if m := yamlLineRegexp.FindStringSubmatch(err.Error()); m != nil {
		lno, _ := strconv.Atoi(m[1])
		return &Error{Format: "yaml", Lno: lno, Msg: m[2], Err: err}
	}
	return &Error{Format: "yaml", Err: err}
}

func yamlNodeError(node *yaml.Node, format string, args ...any) error {
	return &Error{Format: "yaml", Lno: node.Line, Msg: fmt.Sprintf(format, args...)}
}

// maxYAMLExpansion bounds the number of nodes decoded through aliases.
const maxYAMLExpansion = 1 << 16

// yamlDecoder converts a node tree into values. Aliases may point back at
// a node that is still being decoded, so the containers in progress are
// tracked, and the number of nodes copied through aliases is capped.
type yamlDecoder struct {
	active   map[*yaml.Node]bool
	aliases  int
	expanded int
}

func decodeYAMLNode(node *yaml.Node) (treejson.Value, error) {
	d := yamlDecoder{active: map[*yaml.Node]bool{}}
	return d.decode(node)
}

func (d *yamlDecoder) enter(node *yaml.Node) error {
	if d.aliases == 0 {
		return nil
	}
	d.expanded++
	if d.expanded > maxYAMLExpansion {
		return yamlNodeError(node, "too many nodes after alias expansion")
	}
	return nil
}

// resolve follows an alias to its anchor.
func (d *yamlDecoder) resolve(node *yaml.Node) (*yaml.Node, error) {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		if d.active[node.Alias] {
			return nil, yamlNodeError(node, "alias cycle")
		}
		node = node.Alias
	}
	return node, nil
}

func (d *yamlDecoder) decode(node *yaml.Node) (treejson.Value, error) {
	if err := d.enter(node); err != nil {
		return nil, err
	}

	switch node.Kind {
	case yaml.MappingNode:
		d.active[node] = true
		defer delete(d.active, node)

		obj := &treejson.Object{}
		explicit := map[string]bool{}
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
				if err := d.merge(obj, explicit, valueNode); err != nil {
					return nil, err
				}
				continue
			}
			if keyNode.Kind != yaml.ScalarNode {
				return nil, yamlNodeError(keyNode, "unsupported mapping key")
			}
			key := keyNode.Value
			if explicit[key] {
				return nil, yamlNodeError(keyNode, "duplicate key %s", key)
			}
			value, err := d.decode(valueNode)
			if err != nil {
				return nil, err
			}
			explicit[key] = true
			obj.Set(key, value)
		}
		return obj, nil

	case yaml.SequenceNode:
		d.active[node] = true
		defer delete(d.active, node)

		list := make(treejson.List, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := d.decode(child)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil

	case yaml.AliasNode:
		if node.Alias == nil {
			return treejson.Null{}, nil
		}
		target, err := d.resolve(node)
		if err != nil {
			return nil, err
		}
		d.aliases++
		defer func() { d.aliases-- }()
		return d.decode(target)

	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return treejson.Null{}, nil
		}
		return d.decode(node.Content[0])

	default:
		return decodeYAMLScalar(node), nil
	}
}

// merge applies a "<<" merge key. The value is a mapping, an alias to one,
// or a sequence of them; keys already given explicitly are left alone.
func (d *yamlDecoder) merge(obj *treejson.Object, explicit map[string]bool, node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		d.aliases++
		defer func() { d.aliases-- }()
	}
	node, err := d.resolve(node)
	if err != nil {
		return err
	}
	switch node.Kind {
	case yaml.SequenceNode:
		d.active[node] = true
		defer delete(d.active, node)
		for _, child := range node.Content {
			if err := d.merge(obj, explicit, child); err != nil {
				return err
			}
		}
		return nil
	case yaml.MappingNode:
		merged, err := d.decode(node)
		if err != nil {
			return err
		}
		for key, value := range merged.(*treejson.Object).All() {
			if !explicit[key] {
				obj.Set(key, value)
			}
		}
		return nil
	}
	return yamlNodeError(node, "merge value must be a mapping")
}

func decodeYAMLScalar(node *yaml.Node) treejson.Value {
	if node.ShortTag() == "!!timestamp" {
		return treejson.String(node.Value)
	}
	var value any
	if err := node.Decode(&value); err != nil {
		return treejson.String(node.Value)
	}
	switch v := value.(type) {
	case nil:
		return treejson.Null{}
	case bool:
		return treejson.Boolean(v)
	case int:
		return treejson.Integer(v)
	case int64:
		return treejson.Integer(v)
	case uint64:
		return treejson.Float(float64(v))
	case float64:
		return treejson.Float(v)
	case string:
		return treejson.String(v)
	case time.Time:
		return treejson.String(node.Value)
	default:
		return treejson.String(fmt.Sprint(v))
	}
}
