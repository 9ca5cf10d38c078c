package multimap

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	_ yaml.Marshaler   = &MultiMap[int, any]{}
	_ yaml.Unmarshaler = &MultiMap[int, any]{}
)

// MarshalYAML implements the yaml.Marshaler interface. Every stored
// pair becomes one member of a YAML mapping node, in sequence order,
// duplicate keys included.
func (m *MultiMap[K, V]) MarshalYAML() (any, error) {
	if m == nil {
		return nil, nil
	}

	node := yaml.Node{
		Kind: yaml.MappingNode,
	}
	for _, pair := range m.pairs {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(pair.Key); err != nil {
			return nil, err
		}

		valueNode := &yaml.Node{}
		if err := valueNode.Encode(pair.Value); err != nil {
			return nil, err
		}

		node.Content = append(node.Content, keyNode, valueNode)
	}

	return &node, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface. Mapping
// members are appended in document order; the node is walked directly,
// so repeated keys - which yaml.v3 would otherwise reject - become
// duplicate entries.
func (m *MultiMap[K, V]) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("cannot unmarshal %s into a multimap", value.ShortTag())
	}

	for i := 0; i < len(value.Content); i += 2 {
		var key K
		var val V
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		if err := value.Content[i+1].Decode(&val); err != nil {
			return err
		}
		m.Append(Pair[K, V]{Key: key, Value: val})
	}

	return nil
}
