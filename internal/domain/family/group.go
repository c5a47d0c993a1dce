package family

import "github.com/famscope/famscope/internal/domain/person"

// Group is the output of classification: every relative placed in exactly
// one branch, deduplicated, in upstream order.  The principal is tracked
// separately and never appears in a branch sequence.
type Group struct {
	Principal person.Person

	// Members maps each branch to its relatives in upstream order.  Branches
	// with no relatives have no entry; use Branch() for a nil-safe read.
	Members map[Branch][]person.Person

	// All is the deduplicated flat relative list in upstream order, for
	// cross-cutting aggregation that ignores branches.
	All []person.Person
}

// Branch returns the members of b, or nil when the branch is empty.
func (g Group) Branch(b Branch) []person.Person {
	return g.Members[b]
}

// Total returns the number of deduplicated relatives across all branches.
func (g Group) Total() int {
	return len(g.All)
}

// Count returns the number of relatives in branch b.
func (g Group) Count(b Branch) int {
	return len(g.Members[b])
}
