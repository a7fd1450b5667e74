package sphinxconf

import (
	ast "github.com/honeybbq/sphinxconf/pkg/ast/sphinx"
)

// SectionView is a stable, export-friendly snapshot of one section, used by
// the YAML/JSON dump paths. Pairs hold deep copies; mutating a view never
// touches the document.
type SectionView struct {
	Type   string              `yaml:"type" json:"type"`
	Name   string              `yaml:"name,omitempty" json:"name,omitempty"`
	Parent string              `yaml:"parent,omitempty" json:"parent,omitempty"`
	Pairs  map[string][]string `yaml:"pairs" json:"pairs"`
}

// DocumentView snapshots every section in document order.
func DocumentView(doc *ast.Document) []SectionView {
	if doc == nil {
		return nil
	}
	sections := doc.Sections()
	views := make([]SectionView, 0, len(sections))
	for _, s := range sections {
		pairs := make(map[string][]string)
		for key, v := range s.Pairs() {
			pairs[key] = []string(v)
		}
		views = append(views, SectionView{
			Type:   string(s.Type()),
			Name:   s.Name(),
			Parent: s.Parent(),
			Pairs:  pairs,
		})
	}
	return views
}
