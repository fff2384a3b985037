// Package guide loads the IPTC Photo Metadata investigation guides: YAML
// documents mapping exiftool tag names to the canonical property definitions
// of the standard. Two guide generations exist with different section names;
// both are handled by the same loader.
package guide

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PropertySpec describes one property of the IPTC Photo Metadata standard.
type PropertySpec struct {
	Label      string `yaml:"label"`
	SortOrder  string `yaml:"sortorder"`
	UGTopic    string `yaml:"ugtopic"`
	DataType   string `yaml:"datatype"`
	DataFormat string `yaml:"dataformat"`
	ETTag      string `yaml:"etTag"`
	ETIIM      string `yaml:"etIIM"`
	ETXMP      string `yaml:"etXMP"`
}

// PrimaryLabel returns the display name of the property. Labels may carry a
// `|`-separated alternate form; only the first form is used in paths.
func (p PropertySpec) PrimaryLabel() string {
	if p.Label == "" {
		return ""
	}
	return strings.SplitN(p.Label, "|", 2)[0]
}

// StructID returns the identifier of the nested structure this property
// resolves to, or "" for plain values. AltLang structures are reported by
// exiftool as a single string and therefore count as plain values.
func (p PropertySpec) StructID() string {
	if p.DataType != "struct" || p.DataFormat == "AltLang" {
		return ""
	}
	return p.DataFormat
}

// IsPlainValue reports whether the property carries a directly comparable
// value (string or number, including the AltLang quirk).
func (p PropertySpec) IsPlainValue() bool {
	switch p.DataType {
	case "string", "number":
		return true
	case "struct":
		return p.DataFormat == "AltLang"
	}
	return false
}

// SpecSet is an ordered set of property specs, keyed by property id. Order
// follows the guide document, which lists properties in standard order.
type SpecSet struct {
	ids   []string
	specs map[string]PropertySpec
}

// UnmarshalYAML decodes a mapping node while preserving key order.
func (s *SpecSet) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("guide section is not a mapping (line %d)", value.Line)
	}
	s.specs = make(map[string]PropertySpec, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var id string
		if err := value.Content[i].Decode(&id); err != nil {
			return fmt.Errorf("failed to decode property id: %w", err)
		}
		var spec PropertySpec
		if err := value.Content[i+1].Decode(&spec); err != nil {
			return fmt.Errorf("failed to decode property %q: %w", id, err)
		}
		if _, exists := s.specs[id]; !exists {
			s.ids = append(s.ids, id)
		}
		s.specs[id] = spec
	}
	return nil
}

// IDs returns the property ids in guide order.
func (s *SpecSet) IDs() []string {
	if s == nil {
		return nil
	}
	return s.ids
}

// Get returns the spec stored under id.
func (s *SpecSet) Get(id string) (PropertySpec, bool) {
	if s == nil {
		return PropertySpec{}, false
	}
	spec, ok := s.specs[id]
	return spec, ok
}

// Len returns the number of properties in the set.
func (s *SpecSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Guide holds the descriptor tables of one guide document. It is immutable
// after Load and safe to share across concurrent file runs.
type Guide struct {
	top      *SpecSet
	inStruct *SpecSet
	ipmdTop  *SpecSet
	structs  map[string]*SpecSet
}

// guideDoc covers both guide generations: the investigation guide uses
// topwithprefix/instructure, the technical guide prefixes the same sections
// with et_ and adds the ipmd_* sections used by the inventory mode.
type guideDoc struct {
	Top        *SpecSet            `yaml:"topwithprefix"`
	InStruct   *SpecSet            `yaml:"instructure"`
	ETTop      *SpecSet            `yaml:"et_topwithprefix"`
	ETInStruct *SpecSet            `yaml:"et_instructure"`
	IPMDTop    *SpecSet            `yaml:"ipmd_top"`
	IPMDStruct map[string]*SpecSet `yaml:"ipmd_struct"`
}

// Load reads a guide document from disk.
func Load(path string) (*Guide, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guide: %w", err)
	}

	var doc guideDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse guide %s: %w", path, err)
	}

	g := &Guide{
		top:      doc.Top,
		inStruct: doc.InStruct,
		ipmdTop:  doc.IPMDTop,
		structs:  doc.IPMDStruct,
	}
	if g.top == nil {
		g.top = doc.ETTop
	}
	if g.inStruct == nil {
		g.inStruct = doc.ETInStruct
	}
	if g.top.Len() == 0 {
		return nil, fmt.Errorf("guide %s has no top level property section", path)
	}
	return g, nil
}

// NormalizeTag maps an exiftool tag name to the guide key form: group and
// tag are joined with an underscore instead of a colon.
func NormalizeTag(tag string) string {
	return strings.ReplaceAll(tag, ":", "_")
}

func (g *Guide) namespace(inStructure bool) *SpecSet {
	if inStructure {
		return g.inStruct
	}
	return g.top
}

// IsRecognized reports whether the exiftool tag corresponds to a property of
// the standard in the given context.
func (g *Guide) IsRecognized(tag string, inStructure bool) bool {
	_, ok := g.namespace(inStructure).Get(NormalizeTag(tag))
	return ok
}

// DisplayName resolves the exiftool tag to the property's display name. An
// unrecognized tag is returned unchanged.
func (g *Guide) DisplayName(tag string, inStructure bool) string {
	spec, ok := g.namespace(inStructure).Get(NormalizeTag(tag))
	if !ok {
		return tag
	}
	if name := spec.PrimaryLabel(); name != "" {
		return name
	}
	return tag
}

// TopProperties returns the canonical top level property set of the
// technical guide, or nil for guides without inventory sections.
func (g *Guide) TopProperties() *SpecSet {
	return g.ipmdTop
}

// Struct returns the property set describing a nested structure.
func (g *Guide) Struct(id string) (*SpecSet, bool) {
	set, ok := g.structs[id]
	if !ok || set == nil {
		return nil, false
	}
	return set, true
}
