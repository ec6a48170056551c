package entity

import "github.com/intakehq/docintel/constants"

// DocumentGroup is all files belonging to one submission. The group owns
// its documents for the duration of a fuse call; fusion reads them but
// never mutates them.
type DocumentGroup struct {
	GroupID   string         `json:"group_id"`
	Documents []*Document    `json:"documents"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ByType returns the documents of a specific type, in group order.
func (g *DocumentGroup) ByType(t constants.DocumentType) []*Document {
	var out []*Document
	for _, d := range g.Documents {
		if d.DocumentType == t {
			out = append(out, d)
		}
	}
	return out
}

// HasType reports whether the group contains a document of type t.
func (g *DocumentGroup) HasType(t constants.DocumentType) bool {
	for _, d := range g.Documents {
		if d.DocumentType == t {
			return true
		}
	}
	return false
}

// CountByType counts group members per classified type.
func (g *DocumentGroup) CountByType() map[constants.DocumentType]int {
	counts := map[constants.DocumentType]int{}
	for _, d := range g.Documents {
		counts[d.DocumentType]++
	}
	return counts
}
