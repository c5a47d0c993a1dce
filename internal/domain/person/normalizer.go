package person

import (
	"strconv"
	"strings"
)

// Schema identifies a known upstream field-name schema.  The upstream family
// tree API is served by more than one backend and the record shape differs
// between them; each schema gets its own named adapter instead of one deep
// fallback chain.
type Schema string

const (
	// SchemaAuto lets Normalize detect the schema per record.
	SchemaAuto Schema = "auto"

	// SchemaShort is the compact field naming used by the primary backend:
	// dni / nom / ap / am / tipo / ge / edad / fn.
	SchemaShort Schema = "short"

	// SchemaLong is the verbose field naming used by the registry backend:
	// dni / nombres / apellido_paterno / apellido_materno / parentesco /
	// sexo / edad / fecha_nacimiento.
	SchemaLong Schema = "long"
)

// Record is one raw upstream record: a JSON object decoded into a generic
// map.
type Record map[string]interface{}

// DetectSchema inspects a record's keys and picks the adapter to apply.
// Short-schema keys win when both shapes are present; records matching
// neither shape fall back to the short adapter, whose defaults produce a
// fully-placeholder Person.
func DetectSchema(rec Record) Schema {
	if _, ok := rec["nom"]; ok {
		return SchemaShort
	}
	if _, ok := rec["nombres"]; ok {
		return SchemaLong
	}
	if _, ok := rec["apellido_paterno"]; ok {
		return SchemaLong
	}
	return SchemaShort
}

// Normalize converts one raw upstream record into the canonical Person.
// It never fails: missing fields resolve to the "N/A" placeholder (display
// strings), GenderUnknown, or an absent age, reflecting the upstream's
// tolerance for incomplete records.  Name components are uppercased and
// trimmed for consistent display and comparison.
func Normalize(rec Record, schema Schema) Person {
	if schema == SchemaAuto || schema == "" {
		schema = DetectSchema(rec)
	}
	switch schema {
	case SchemaLong:
		return normalizeLong(rec)
	default:
		return normalizeShort(rec)
	}
}

func normalizeShort(rec Record) Person {
	return Person{
		DocumentID:        idField(rec, "dni"),
		GivenNames:        nameField(rec, "nom"),
		PaternalSurname:   nameField(rec, "ap"),
		MaternalSurname:   nameField(rec, "am"),
		Gender:            ParseGender(stringField(rec, "ge")),
		Age:               ageField(rec, "edad"),
		BirthDate:         stringField(rec, "fn"),
		RelationshipLabel: labelField(rec, "tipo"),
	}
}

func normalizeLong(rec Record) Person {
	return Person{
		DocumentID:        idField(rec, "dni"),
		GivenNames:        nameField(rec, "nombres"),
		PaternalSurname:   nameField(rec, "apellido_paterno"),
		MaternalSurname:   nameField(rec, "apellido_materno"),
		Gender:            ParseGender(stringField(rec, "sexo")),
		Age:               ageField(rec, "edad"),
		BirthDate:         stringField(rec, "fecha_nacimiento"),
		RelationshipLabel: labelField(rec, "parentesco"),
	}
}

// ParseGender maps the upstream gender string onto the Gender enum.
// Both backends use Spanish labels; single-letter abbreviations appear in
// older records.
func ParseGender(raw string) Gender {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "MASCULINO", "M":
		return GenderMale
	case "FEMENINO", "F":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// stringField extracts a trimmed string value; numbers are formatted,
// everything else yields "".
func stringField(rec Record, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		// JSON numbers decode as float64; document ids sometimes arrive
		// numeric.
		return strconv.FormatInt(int64(s), 10)
	case int:
		return strconv.Itoa(s)
	default:
		return ""
	}
}

// idField extracts a document id, kept verbatim apart from trimming; ids
// are comparison keys, not display strings, so no placeholder is inserted.
func idField(rec Record, key string) string {
	return stringField(rec, key)
}

// nameField extracts a display name component: uppercased, trimmed, with
// the "N/A" placeholder for missing values.
func nameField(rec Record, key string) string {
	s := strings.ToUpper(stringField(rec, key))
	if s == "" {
		return Display
	}
	return s
}

// labelField extracts the relationship label: uppercased and trimmed, empty
// when absent (an empty label is meaningful to the classifier, it routes
// the relative to the extended branch).
func labelField(rec Record, key string) string {
	return strings.ToUpper(stringField(rec, key))
}

// ageField extracts a non-negative age, or nil when the value is missing,
// malformed, or negative.
func ageField(rec Record, key string) *int {
	v, ok := rec[key]
	if !ok || v == nil {
		return nil
	}
	var age int
	switch n := v.(type) {
	case float64:
		age = int(n)
	case int:
		age = n
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil
		}
		age = parsed
	default:
		return nil
	}
	if age < 0 {
		return nil
	}
	return &age
}
