package family

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/famscope/famscope/internal/domain/person"
)

func TestClassifyLabel(t *testing.T) {
	tests := []struct {
		label string
		want  Branch
	}{
		{"PADRE", BranchDirect},
		{"MADRE", BranchDirect},
		{"HERMANO", BranchDirect},
		{"HERMANA", BranchDirect},
		{"HIJO", BranchDirect},
		{"HIJA", BranchDirect},
		{"madre", BranchDirect},
		{" MADRE ", BranchDirect},
		{"MADRE BIOLOGICA", BranchDirect},

		{"TIO PATERNO", BranchPaternal},
		{"TIA PATERNA", BranchPaternal},
		{"ABUELO PATERNO", BranchPaternal},
		{"PRIMO PATERNO", BranchPaternal},

		{"TIO MATERNO", BranchMaternal},
		{"PRIMA MATERNA", BranchMaternal},
		{"ABUELA MATERNA", BranchMaternal},

		{"CUÑADO", BranchExtended},
		{"PRIMO", BranchExtended},
		{"SUEGRA", BranchExtended},
		{"", BranchExtended},
		{"   ", BranchExtended},
		{"YERNO", BranchExtended},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyLabel(tt.label), "label %q", tt.label)
	}
}

func TestClassifyLabel_FirstRuleWins(t *testing.T) {
	// A direct token outranks a paternal/maternal qualifier.
	assert.Equal(t, BranchDirect, ClassifyLabel("HERMANO PATERNO"))
	// Paternal is checked before maternal.
	assert.Equal(t, BranchPaternal, ClassifyLabel("PRIMO PATERNO MATERNO"))
}

func rel(id, label string) person.Person {
	return person.Person{DocumentID: id, RelationshipLabel: label}
}

func TestClassify_Totality(t *testing.T) {
	principal := person.Person{DocumentID: "00000000"}
	relatives := []person.Person{
		rel("1", "MADRE"),
		rel("2", "TIO PATERNO"),
		rel("3", "PRIMA MATERNA"),
		rel("4", "CUÑADO"),
		rel("5", ""),
	}

	g := Classify(principal, relatives)

	total := 0
	for _, b := range Branches() {
		total += g.Count(b)
	}
	assert.Equal(t, len(relatives), total)
	assert.Equal(t, len(relatives), g.Total())
}

func TestClassify_DedupeFirstOccurrenceWins(t *testing.T) {
	principal := person.Person{DocumentID: "00000000"}
	first := rel("7", "MADRE")
	first.GivenNames = "FIRST"
	second := rel("7", "TIO PATERNO")
	second.GivenNames = "SECOND"

	g := Classify(principal, []person.Person{first, second})

	assert.Equal(t, 1, g.Total())
	direct := g.Branch(BranchDirect)
	assert.Len(t, direct, 1)
	assert.Equal(t, "FIRST", direct[0].GivenNames)
	assert.Empty(t, g.Branch(BranchPaternal))
}

func TestClassify_PrincipalExcluded(t *testing.T) {
	principal := person.Person{DocumentID: "99999999"}
	g := Classify(principal, []person.Person{
		rel("99999999", "PADRE"),
		rel("1", "MADRE"),
	})

	assert.Equal(t, 1, g.Total())
	assert.Equal(t, "1", g.Branch(BranchDirect)[0].DocumentID)
}

func TestClassify_EmptyIDsNeverMerged(t *testing.T) {
	principal := person.Person{DocumentID: "00000000"}
	g := Classify(principal, []person.Person{
		rel("", "PRIMO"),
		rel("", "SOBRINO POLITICO"),
	})
	assert.Equal(t, 2, g.Total())
	assert.Len(t, g.Branch(BranchExtended), 2)
}

func TestClassify_OrderPreservedAndDeterministic(t *testing.T) {
	principal := person.Person{DocumentID: "00000000"}
	relatives := []person.Person{
		rel("1", "TIO PATERNO"),
		rel("2", "ABUELO PATERNO"),
		rel("3", "PRIMO PATERNO"),
	}

	first := Classify(principal, relatives)
	second := Classify(principal, relatives)

	wantIDs := []string{"1", "2", "3"}
	for i, p := range first.Branch(BranchPaternal) {
		assert.Equal(t, wantIDs[i], p.DocumentID)
	}
	assert.Equal(t, first.Members, second.Members)
	assert.Equal(t, first.All, second.All)
}

func TestClassify_EmptyInput(t *testing.T) {
	g := Classify(person.Person{DocumentID: "1"}, nil)
	assert.Zero(t, g.Total())
	for _, b := range Branches() {
		assert.Empty(t, g.Branch(b))
	}
}
