// Package person defines the canonical person value used throughout the
// report pipeline and the normalizer that maps heterogeneous upstream
// records onto it.
package person

import (
	"fmt"
	"strings"
)

// Gender is the normalized gender of a person.
type Gender string

const (
	GenderMale    Gender = "MALE"
	GenderFemale  Gender = "FEMALE"
	GenderUnknown Gender = "UNKNOWN"
)

// Display is the placeholder used for missing display-facing fields.
const Display = "N/A"

// Person is the canonical, immutable representation of an individual:
// either the principal of a report or one of their relatives.  Instances are
// constructed once per upstream response and discarded at the end of the
// request; there is no persistence.
type Person struct {
	// DocumentID is the external identifier (DNI).  Required for the
	// principal; relatives may arrive without one.
	DocumentID string

	GivenNames      string
	PaternalSurname string
	MaternalSurname string

	Gender Gender

	// Age is the person's age in years; nil when the upstream record does
	// not carry one.
	Age *int

	// BirthDate is the upstream-supplied birth date string, kept verbatim
	// for display only.
	BirthDate string

	// RelationshipLabel is the free-text label describing how this person
	// relates to the principal (e.g. "MADRE", "TIO PATERNO").  Empty for the
	// principal.
	RelationshipLabel string
}

// FullName returns the display name: given names followed by both surnames,
// with empty components collapsed.
func (p Person) FullName() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.GivenNames, p.PaternalSurname, p.MaternalSurname} {
		if s != "" && s != Display {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return Display
	}
	return strings.Join(parts, " ")
}

// DisplayAge returns the age formatted for display, or the placeholder when
// the age is unknown.
func (p Person) DisplayAge() string {
	if p.Age == nil {
		return Display
	}
	return fmt.Sprintf("%d", *p.Age)
}

// HasAge reports whether the upstream record carried an age.
func (p Person) HasAge() bool { return p.Age != nil }
