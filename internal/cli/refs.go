package cli

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"sqlcanvas/internal/domain"
)

// parseRefs decodes a YAML document mapping node labels to lists of result
// rows. Decoding goes through yaml.Node rather than plain maps because the
// column order of the first row defines the relation schema, and Go maps
// would lose it. Numbers are kept as json.Number so they reach the engine
// with their source formatting intact.
func parseRefs(data []byte) (map[string]domain.ResultSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	refs := make(map[string]domain.ResultSet)
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return refs, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping of label to rows, got %s", kindName(root.Kind))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		label := root.Content[i].Value
		rows, err := parseRows(root.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("label %q: %w", label, err)
		}
		refs[label] = rows
	}
	return refs, nil
}

func parseRows(node *yaml.Node) (domain.ResultSet, error) {
	if node.Tag == "!!null" {
		return domain.ResultSet{}, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("rows must be a sequence, got %s", kindName(node.Kind))
	}

	rows := make(domain.ResultSet, 0, len(node.Content))
	for idx, rowNode := range node.Content {
		if rowNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("row %d: must be a mapping, got %s", idx, kindName(rowNode.Kind))
		}
		row := domain.NewRow()
		for i := 0; i+1 < len(rowNode.Content); i += 2 {
			col := rowNode.Content[i].Value
			val, err := scalarValue(rowNode.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", idx, col, err)
			}
			row.Set(col, val)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func scalarValue(node *yaml.Node) (any, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("values must be scalar, got %s", kindName(node.Kind))
	}
	switch node.Tag {
	case "!!null":
		return nil, nil
	case "!!int", "!!float":
		return json.Number(node.Value), nil
	case "!!bool":
		return node.Value == "true", nil
	default:
		return node.Value, nil
	}
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
