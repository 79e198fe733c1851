package taxonomy

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	perr "jangat/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

//go:embed subjects.yaml
var embedded []byte

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
	defaultErr  error
)

// Default returns the embedded French taxonomy, parsed once
func Default() (*Taxonomy, error) {
	defaultOnce.Do(func() {
		defaultTax, defaultErr = Parse(bytes.NewReader(embedded))
	})
	return defaultTax, defaultErr
}

// LoadFile reads a taxonomy YAML file
func LoadFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "open taxonomy %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a document of the form
//
//	subjects:
//	  "Santé":
//	    - "santé"
//	    - "hôpital"
//
// Subjects keep document order, which is why the node tree is walked instead of
// decoding into a map
func Parse(r io.Reader) (*Taxonomy, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, perr.Wrap(ErrInvalidTaxonomy, perr.ErrorCodeValidation, "empty taxonomy document")
		}
		return nil, perr.Wrapf(ErrInvalidTaxonomy, perr.ErrorCodeValidation, "parse taxonomy: %v", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, invalidAt(root, "top level must be a mapping")
	}

	var subjects *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "subjects" {
			subjects = root.Content[i+1]
		}
	}
	if subjects == nil {
		return nil, invalidAt(root, "missing \"subjects\" key")
	}
	if subjects.Kind != yaml.MappingNode {
		return nil, invalidAt(subjects, "\"subjects\" must map names to synonym lists")
	}

	entries := make([]Entry, 0, len(subjects.Content)/2)
	for i := 0; i+1 < len(subjects.Content); i += 2 {
		k, v := subjects.Content[i], subjects.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, invalidAt(k, "subject name must be a string")
		}
		var syns []string
		if err := v.Decode(&syns); err != nil {
			return nil, invalidAt(v, fmt.Sprintf("synonyms of %q must be a list of strings", k.Value))
		}
		entries = append(entries, Entry{Name: k.Value, Synonyms: syns})
	}
	return Build(entries)
}

func invalidAt(n *yaml.Node, msg string) error {
	return perr.Wrapf(ErrInvalidTaxonomy, perr.ErrorCodeValidation, "line %d: %s", n.Line, msg)
}

// Encode writes t in the format Parse reads
func (t *Taxonomy) Encode(w io.Writer) error {
	subjects := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range t.subjects {
		list := &yaml.Node{Kind: yaml.SequenceNode}
		for _, syn := range s.Synonyms {
			list.Content = append(list.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: syn, Style: yaml.DoubleQuotedStyle})
		}
		subjects.Content = append(subjects.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: s.Name, Style: yaml.DoubleQuotedStyle}, list)
	}
	root := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "subjects"}, subjects,
	}}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return err
	}
	return enc.Close()
}
