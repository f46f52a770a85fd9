// Package yaml provides a YAML document codec.
package yaml

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/zoobzio/satchel/document"
	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when the YAML document root is not a mapping.
var ErrNotMapping = errors.New("top-level YAML value is not a mapping")

// yamlCodec implements document.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() document.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes d as a YAML mapping in document order.
func (c *yamlCodec) Marshal(d *document.Document) ([]byte, error) {
	node, err := documentNode(d)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// Unmarshal decodes a YAML mapping into a document.
func (c *yamlCodec) Unmarshal(data []byte) (*document.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, ErrNotMapping
	}
	top := resolve(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	return mappingDocument(top)
}

func documentNode(d *document.Document) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range d.Fields() {
		value, err := valueNode(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		node.Content = append(node.Content, scalar("!!str", f.Key), value)
	}
	return node, nil
}

func valueNode(v any) (*yaml.Node, error) {
	v, err := document.Normalize(v)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(x)), nil
	case string:
		return scalar("!!str", x), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(x, 10)), nil
	case float64:
		return scalar("!!float", strconv.FormatFloat(x, 'g', -1, 64)), nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			child, err := valueNode(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case *document.Document:
		return documentNode(x)
	}
	return nil, fmt.Errorf("unsupported document value of type %T", v)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// resolve follows aliases to the node they point at.
func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func mappingDocument(n *yaml.Node) (*document.Document, error) {
	d := document.New()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolve(n.Content[i])
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping key is not a scalar", key.Line)
		}
		v, err := nodeValue(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		d.Set(key.Value, v)
	}
	return d, nil
}

func nodeValue(n *yaml.Node) (any, error) {
	n = resolve(n)
	switch n.Kind {
	case yaml.MappingNode:
		return mappingDocument(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := nodeValue(child)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return document.Normalize(v)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}
