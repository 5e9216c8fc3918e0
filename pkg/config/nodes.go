package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dosort/pkg/errors"
)

// resolve follows aliases to the anchored node
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// pairs returns the key/value pairs of a mapping node in document order.
// Merge keys (<<) are expanded in place.
func pairs(n *yaml.Node) [][2]*yaml.Node {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	var out [][2]*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Tag == "!!merge" {
			for _, merged := range flatten(value) {
				out = append(out, pairs(merged)...)
			}
			continue
		}
		out = append(out, [2]*yaml.Node{key, value})
	}
	return out
}

// flatten returns the items of a sequence, descending into nested
// sequences. A scalar or mapping is returned as a single item and an
// absent node yields nothing.
func flatten(n *yaml.Node) []*yaml.Node {
	n = resolve(n)
	if n == nil || n.Kind == 0 {
		return nil
	}
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		return flatten(n.Content[0])
	}
	if n.Kind != yaml.SequenceNode {
		if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
			return nil
		}
		return []*yaml.Node{n}
	}
	var out []*yaml.Node
	for _, item := range n.Content {
		out = append(out, flatten(item)...)
	}
	return out
}

func nodeError(n *yaml.Node, format string, args ...interface{}) error {
	return errors.Newf(errors.ErrConfigParse, "line %d: %s", n.Line, fmt.Sprintf(format, args...)).
		WithDetail("line", n.Line)
}
