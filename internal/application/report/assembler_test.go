package report

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famscope/famscope/internal/domain/family"
	"github.com/famscope/famscope/internal/domain/person"
)

func relatives(branchLabel string, n int) []person.Person {
	out := make([]person.Person, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, person.Person{
			DocumentID:        fmt.Sprintf("%08d", i+1),
			RelationshipLabel: branchLabel,
		})
	}
	return out
}

func TestAssemble_PageOrder(t *testing.T) {
	principal := person.Person{DocumentID: "12345678"}
	g := family.Classify(principal, []person.Person{
		{DocumentID: "1", RelationshipLabel: "MADRE"},
	})
	stats := family.Aggregate(g, nil)

	pages := Assemble(principal, g, stats, 15)

	// Summary, legend, four branch listings, statistics.
	require.Len(t, pages, 7)
	assert.Equal(t, SectionPrincipalSummary, pages[0].Section)
	assert.Equal(t, SectionLegend, pages[1].Section)
	wantBranches := family.Branches()
	for i, b := range wantBranches {
		assert.Equal(t, SectionBranchListing, pages[2+i].Section)
		assert.Equal(t, b, pages[2+i].Branch)
	}
	assert.Equal(t, SectionStatistics, pages[6].Section)
}

func TestAssemble_Chunking(t *testing.T) {
	principal := person.Person{DocumentID: "12345678"}
	g := family.Classify(principal, relatives("TIO PATERNO", 32))
	stats := family.Aggregate(g, nil)

	pages := Assemble(principal, g, stats, 15)

	var paternal []PageDescriptor
	for _, p := range pages {
		if p.Section == SectionBranchListing && p.Branch == family.BranchPaternal {
			paternal = append(paternal, p)
		}
	}
	require.Len(t, paternal, 3)
	assert.Len(t, paternal[0].Items, 15)
	assert.Len(t, paternal[1].Items, 15)
	assert.Len(t, paternal[2].Items, 2)
	for i, p := range paternal {
		assert.Equal(t, i+1, p.PageIndex)
		assert.Equal(t, 3, p.PageCount)
		assert.False(t, p.Empty)
	}

	assert.Equal(t, "RAMA GENEALOGICA PATERNA", paternal[0].Title)
	assert.Equal(t, "RAMA GENEALOGICA PATERNA (Parte 2)", paternal[1].Title)
	assert.Equal(t, "RAMA GENEALOGICA PATERNA (Parte 3)", paternal[2].Title)

	// Order preserved across page boundaries.
	assert.Equal(t, "00000001", paternal[0].Items[0].DocumentID)
	assert.Equal(t, "00000016", paternal[1].Items[0].DocumentID)
	assert.Equal(t, "00000032", paternal[2].Items[1].DocumentID)
}

func TestAssemble_EmptyBranch(t *testing.T) {
	principal := person.Person{DocumentID: "12345678"}
	g := family.Classify(principal, nil)
	stats := family.Aggregate(g, nil)

	pages := Assemble(principal, g, stats, 15)

	require.Len(t, pages, 7)
	for _, b := range family.Branches() {
		var got []PageDescriptor
		for _, p := range pages {
			if p.Section == SectionBranchListing && p.Branch == b {
				got = append(got, p)
			}
		}
		require.Len(t, got, 1, "branch %s", b)
		assert.True(t, got[0].Empty)
		assert.Empty(t, got[0].Items)
		assert.Equal(t, 1, got[0].PageIndex)
		assert.Equal(t, 1, got[0].PageCount)
		assert.Equal(t, b.DisplayName(), got[0].Title)
	}
}

func TestAssemble_CapacityFallback(t *testing.T) {
	principal := person.Person{DocumentID: "12345678"}
	g := family.Classify(principal, relatives("PRIMO", 16))
	stats := family.Aggregate(g, nil)

	pages := Assemble(principal, g, stats, 0)

	var extended []PageDescriptor
	for _, p := range pages {
		if p.Section == SectionBranchListing && p.Branch == family.BranchExtended {
			extended = append(extended, p)
		}
	}
	require.Len(t, extended, 2)
	assert.Len(t, extended[0].Items, DefaultPageCapacity)
	assert.Len(t, extended[1].Items, 1)
}

func TestAssemble_Deterministic(t *testing.T) {
	principal := person.Person{DocumentID: "12345678"}
	rels := relatives("TIA MATERNA", 20)
	g := family.Classify(principal, rels)
	stats := family.Aggregate(g, nil)

	first := Assemble(principal, g, stats, 7)
	second := Assemble(principal, g, stats, 7)
	assert.Equal(t, first, second)
}
