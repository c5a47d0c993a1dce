// Package family implements the relative-classification core: mapping the
// flat list of relationship records returned by the lookup collaborator into
// family branches, and deriving layout-ready groupings and statistics from
// the result.
package family

import (
	"strings"

	"github.com/famscope/famscope/internal/domain/person"
)

// Branch is one of the closed set of categories relatives are grouped into
// for display and statistics.
type Branch string

const (
	BranchDirect   Branch = "DIRECT"
	BranchPaternal Branch = "PATERNAL"
	BranchMaternal Branch = "MATERNAL"
	BranchExtended Branch = "EXTENDED"
)

// Branches returns every branch in canonical report order.
func Branches() []Branch {
	return []Branch{BranchDirect, BranchPaternal, BranchMaternal, BranchExtended}
}

// DisplayName returns the Spanish section title used in the rendered report.
func (b Branch) DisplayName() string {
	switch b {
	case BranchDirect:
		return "FAMILIA DIRECTA"
	case BranchPaternal:
		return "RAMA GENEALOGICA PATERNA"
	case BranchMaternal:
		return "RAMA GENEALOGICA MATERNA"
	default:
		return "FAMILIA EXTENDIDA"
	}
}

// directLabels are the relationship labels that place a relative in the
// direct branch.  Matching is by substring so qualified forms like
// "MADRE BIOLOGICA" still classify as direct.
var directLabels = []string{"PADRE", "MADRE", "HERMANO", "HERMANA", "HIJO", "HIJA"}

// ClassifyLabel assigns a relationship label to exactly one branch.
//
// The rules apply in order and the first match wins:
//
//  1. The uppercased label contains one of PADRE, MADRE, HERMANO, HERMANA,
//     HIJO, HIJA → DIRECT.
//  2. It contains PATERNO or PATERNA (e.g. "TIO PATERNO") → PATERNAL.
//  3. It contains MATERNO or MATERNA → MATERNAL.
//  4. Anything else, including an empty label → EXTENDED.
//
// The function is total: every label, recognized or not, lands in a branch.
func ClassifyLabel(label string) Branch {
	l := strings.ToUpper(strings.TrimSpace(label))
	if l == "" {
		return BranchExtended
	}
	for _, direct := range directLabels {
		if strings.Contains(l, direct) {
			return BranchDirect
		}
	}
	if strings.Contains(l, "PATERNO") || strings.Contains(l, "PATERNA") {
		return BranchPaternal
	}
	if strings.Contains(l, "MATERNO") || strings.Contains(l, "MATERNA") {
		return BranchMaternal
	}
	return BranchExtended
}

// Classify groups relatives by branch.  Relatives are deduplicated by
// document id (first occurrence wins; records without an id are never
// merged), the principal's own id is excluded, and the upstream order is
// preserved within each branch.  The result is deterministic for identical
// input.
func Classify(principal person.Person, relatives []person.Person) Group {
	g := Group{
		Principal: principal,
		Members:   make(map[Branch][]person.Person, 4),
	}
	seen := make(map[string]struct{}, len(relatives))
	for _, rel := range relatives {
		if rel.DocumentID != "" {
			if rel.DocumentID == principal.DocumentID {
				continue
			}
			if _, dup := seen[rel.DocumentID]; dup {
				continue
			}
			seen[rel.DocumentID] = struct{}{}
		}
		b := ClassifyLabel(rel.RelationshipLabel)
		g.Members[b] = append(g.Members[b], rel)
		g.All = append(g.All, rel)
	}
	return g
}
