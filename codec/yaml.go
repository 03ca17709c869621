package codec

import (
	"io"
	"strconv"

	"github.com/fwojciec/htmltable"
	"gopkg.in/yaml.v3"
)

var _ htmltable.Encoder = (*YAMLEncoder)(nil)

// YAMLEncoder writes the result as a YAML document, keeping column and row
// order. Positional keys are written as integers and cell values are always
// strings.
type YAMLEncoder struct{}

// NewYAMLEncoder creates a new YAMLEncoder.
func NewYAMLEncoder() *YAMLEncoder {
	return &YAMLEncoder{}
}

// Encode writes the YAML form of result to w.
func (e *YAMLEncoder) Encode(w io.Writer, result *htmltable.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(resultNode(result)); err != nil {
		return htmltable.Errorf(htmltable.EINTERNAL, "failed to encode YAML: %v", err)
	}
	return enc.Close()
}

func resultNode(result *htmltable.Result) *yaml.Node {
	if !result.All {
		return tableNode(result.First())
	}
	n := mappingNode()
	for _, t := range result.Tables {
		n.Content = append(n.Content, strNode(t.Name), tableNode(t))
	}
	return flowIfEmpty(n)
}

func tableNode(t htmltable.Table) *yaml.Node {
	if !t.Labeled() {
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, rec := range t.Records() {
			n.Content = append(n.Content, recordNode(rec))
		}
		return flowIfEmpty(n)
	}
	n := mappingNode()
	for _, e := range t.Entries() {
		n.Content = append(n.Content, keyNode(htmltable.ParseKey(e.Key)), recordNode(e.Record))
	}
	return flowIfEmpty(n)
}

func recordNode(rec htmltable.Record) *yaml.Node {
	n := mappingNode()
	for _, f := range rec.Fields {
		n.Content = append(n.Content, keyNode(f.Key), strNode(f.Value))
	}
	return flowIfEmpty(n)
}

func keyNode(k htmltable.Key) *yaml.Node {
	if i, ok := k.Index(); ok {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
	}
	return strNode(k.String())
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func flowIfEmpty(n *yaml.Node) *yaml.Node {
	if len(n.Content) == 0 {
		n.Style = yaml.FlowStyle
	}
	return n
}
