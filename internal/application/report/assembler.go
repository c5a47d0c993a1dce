// Package report implements the application layer: turning one lookup
// result into a classified, aggregated, page-by-page report and
// orchestrating the collaborators (lookup, cache, storage, renderer)
// around it.
package report

import (
	"fmt"

	"github.com/famscope/famscope/internal/domain/family"
	"github.com/famscope/famscope/internal/domain/person"
)

// SectionType identifies what a rendered page contains.
type SectionType string

const (
	SectionPrincipalSummary SectionType = "PRINCIPAL_SUMMARY"
	SectionLegend           SectionType = "LEGEND"
	SectionBranchListing    SectionType = "BRANCH_LISTING"
	SectionStatistics       SectionType = "STATISTICS"
)

// DefaultPageCapacity is the number of relatives per listing page when the
// caller passes no positive capacity.
const DefaultPageCapacity = 15

// PageDescriptor describes one page of the report in render order.  The
// renderer consumes descriptors sequentially and never reorders them.
type PageDescriptor struct {
	Section SectionType

	// Title is the page heading.  For branch listings it is the branch
	// display name, with a "(Parte k)" suffix on continuation pages.
	Title string

	// Branch is set for SectionBranchListing descriptors only.
	Branch family.Branch

	// PageIndex and PageCount are the 1-based position of this page within
	// its branch, for SectionBranchListing descriptors only.
	PageIndex int
	PageCount int

	// Items are the relatives listed on this page, in classification order.
	Items []person.Person

	// Empty marks the single descriptor emitted for a branch with no
	// members, so the renderer prints the explicit empty notice instead of
	// a blank page.
	Empty bool
}

// Assemble lays the classified group out as an ordered page sequence:
// principal summary, legend, the four branch listings in canonical branch
// order, then the statistics dashboard.  Branch members are chunked into
// consecutive pages of at most capacity entries, preserving order; a branch
// with no members still contributes exactly one page, marked Empty.  The
// output is deterministic for identical input.
func Assemble(principal person.Person, group family.Group, stats family.Statistics, capacity int) []PageDescriptor {
	if capacity < 1 {
		capacity = DefaultPageCapacity
	}

	pages := []PageDescriptor{
		{Section: SectionPrincipalSummary, Title: "ARBOL GENEALOGICO"},
		{Section: SectionLegend, Title: "LEYENDA DE RAMAS"},
	}

	for _, b := range family.Branches() {
		pages = append(pages, branchPages(b, group.Branch(b), capacity)...)
	}

	pages = append(pages, PageDescriptor{Section: SectionStatistics, Title: "ESTADISTICAS FAMILIARES"})
	return pages
}

// branchPages chunks one branch's members into listing descriptors.
func branchPages(b family.Branch, members []person.Person, capacity int) []PageDescriptor {
	if len(members) == 0 {
		return []PageDescriptor{{
			Section:   SectionBranchListing,
			Title:     b.DisplayName(),
			Branch:    b,
			PageIndex: 1,
			PageCount: 1,
			Empty:     true,
		}}
	}

	count := (len(members) + capacity - 1) / capacity
	pages := make([]PageDescriptor, 0, count)
	for i := 0; i < count; i++ {
		start := i * capacity
		end := start + capacity
		if end > len(members) {
			end = len(members)
		}
		title := b.DisplayName()
		if i > 0 {
			title = fmt.Sprintf("%s (Parte %d)", title, i+1)
		}
		pages = append(pages, PageDescriptor{
			Section:   SectionBranchListing,
			Title:     title,
			Branch:    b,
			PageIndex: i + 1,
			PageCount: count,
			Items:     members[start:end],
		})
	}
	return pages
}
