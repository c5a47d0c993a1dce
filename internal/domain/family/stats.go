package family

import (
	"fmt"
	"math"

	"github.com/famscope/famscope/internal/domain/person"
)

// Statistics holds the aggregate counts derived from one classified group.
// All maps are fully populated (zero counts included) so consumers can
// iterate without existence checks.
type Statistics struct {
	// Total is the number of deduplicated relatives.
	Total int

	// ByGender counts relatives per normalized gender.
	ByGender map[person.Gender]int

	// BracketLabels are the age bracket labels in ascending order, derived
	// from the configured bounds.
	BracketLabels []string

	// ByBracket counts relatives per age bracket label.  Relatives without
	// a known age are excluded and tracked in AgeUnknown.
	ByBracket map[string]int

	// ByGenderBracket counts relatives per gender per bracket index, in
	// BracketLabels order.  Used by the age-by-gender report figure.
	ByGenderBracket map[person.Gender][]int

	// AgeUnknown is the number of relatives without a usable age.
	AgeUnknown int

	// ByBranch counts relatives per branch.
	ByBranch map[Branch]int
}

// BracketLabels derives display labels from ascending age bounds: bounds
// [18, 60] yield ["<18", "18-59", "60+"].
func BracketLabels(bounds []int) []string {
	if len(bounds) == 0 {
		return nil
	}
	labels := make([]string, 0, len(bounds)+1)
	labels = append(labels, fmt.Sprintf("<%d", bounds[0]))
	for i := 1; i < len(bounds); i++ {
		labels = append(labels, fmt.Sprintf("%d-%d", bounds[i-1], bounds[i]-1))
	}
	labels = append(labels, fmt.Sprintf("%d+", bounds[len(bounds)-1]))
	return labels
}

// bracketIndex returns the index of the bracket containing age, for bounds
// interpreted as ascending exclusive upper limits.
func bracketIndex(age int, bounds []int) int {
	for i, b := range bounds {
		if age < b {
			return i
		}
	}
	return len(bounds)
}

// Aggregate computes summary statistics for a classified group.  bounds are
// the ascending age bracket upper limits; nil falls back to [18, 60].
// An empty group yields all-zero statistics, never an error.
func Aggregate(g Group, bounds []int) Statistics {
	if len(bounds) == 0 {
		bounds = []int{18, 60}
	}
	labels := BracketLabels(bounds)

	s := Statistics{
		Total:           g.Total(),
		ByGender:        make(map[person.Gender]int, 3),
		BracketLabels:   labels,
		ByBracket:       make(map[string]int, len(labels)),
		ByGenderBracket: make(map[person.Gender][]int, 3),
		ByBranch:        make(map[Branch]int, 4),
	}

	for _, gen := range []person.Gender{person.GenderMale, person.GenderFemale, person.GenderUnknown} {
		s.ByGender[gen] = 0
		s.ByGenderBracket[gen] = make([]int, len(labels))
	}
	for _, label := range labels {
		s.ByBracket[label] = 0
	}
	for _, b := range Branches() {
		s.ByBranch[b] = g.Count(b)
	}

	for _, rel := range g.All {
		gen := rel.Gender
		if _, known := s.ByGender[gen]; !known {
			gen = person.GenderUnknown
		}
		s.ByGender[gen]++
		if !rel.HasAge() {
			s.AgeUnknown++
			continue
		}
		idx := bracketIndex(*rel.Age, bounds)
		s.ByBracket[labels[idx]]++
		s.ByGenderBracket[gen][idx]++
	}

	return s
}

// Percent converts a count to a whole percentage of the total, rounding
// half up.  The divisor is floored to 1 so an empty relative set yields 0,
// never a division by zero.
func (s Statistics) Percent(count int) int {
	total := s.Total
	if total < 1 {
		total = 1
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}
