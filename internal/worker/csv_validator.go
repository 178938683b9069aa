package worker

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// field kinds checked per cell.
const (
	kindText        = "text"
	kindEmail       = "email"
	kindInt         = "int"
	kindPositiveInt = "positive_int"
	kindEnum        = "enum"
)

type fieldRule struct {
	name     string
	kind     string
	required bool
	enum     []string
	unique   bool
}

type csvSchema struct {
	fields []fieldRule
}

// csvSchemas maps upload categories to their row schemas. The header
// row must match the field names exactly and in order.
var csvSchemas = map[string]csvSchema{
	"DEPARTMENT": {fields: []fieldRule{
		{name: "id", kind: kindText, required: true, unique: true},
		{name: "name", kind: kindText, required: true},
	}},
	"COURSE": {fields: []fieldRule{
		{name: "id", kind: kindText, required: true, unique: true},
		{name: "name", kind: kindText, required: true},
		{name: "ectsCredits", kind: kindInt, required: true},
		{name: "department", kind: kindText, required: true},
		{name: "teacherId", kind: kindText, required: true},
		{name: "sessionType", kind: kindEnum, required: true, enum: []string{"LECTURE", "LAB", "SEMINAR"}},
		{name: "sessionsPerWeek", kind: kindPositiveInt, required: true},
	}},
	"TEACHER": {fields: []fieldRule{
		{name: "id", kind: kindText, required: true, unique: true},
		{name: "name", kind: kindText, required: true},
		{name: "email", kind: kindEmail, required: true, unique: true},
		{name: "phone", kind: kindText, required: false},
		{name: "department", kind: kindText, required: true},
	}},
	"STUDENTGROUP": {fields: []fieldRule{
		{name: "id", kind: kindText, required: true, unique: true},
		{name: "name", kind: kindText, required: true},
		{name: "size", kind: kindPositiveInt, required: true},
		{name: "department", kind: kindText, required: true},
	}},
	"CLASSROOM": {fields: []fieldRule{
		{name: "id", kind: kindText, required: true, unique: true},
		{name: "name", kind: kindText, required: true},
		{name: "capacity", kind: kindPositiveInt, required: true},
		{name: "type", kind: kindEnum, required: true, enum: []string{"LECTURE", "LAB", "SEMINAR"}},
		{name: "buildingId", kind: kindText, required: false},
		{name: "floor", kind: kindInt, required: false},
	}},
	"STUDENT": {fields: []fieldRule{
		{name: "id", kind: kindText, required: true, unique: true},
		{name: "name", kind: kindText, required: true},
		{name: "email", kind: kindEmail, required: true, unique: true},
		{name: "studentGroupId", kind: kindText, required: true},
	}},
	"SGCOURSE": {fields: []fieldRule{
		{name: "studentGroupId", kind: kindText, required: true},
		{name: "courseId", kind: kindText, required: true},
	}},
}

// SupportedCategory reports whether uploads of this category are known.
func SupportedCategory(category string) bool {
	_, ok := csvSchemas[strings.ToUpper(category)]
	return ok
}

// ValidateCSV checks the raw file against the category schema and
// returns every row-level problem found. An empty slice means valid.
func ValidateCSV(category string, data []byte) []string {
	schema, ok := csvSchemas[strings.ToUpper(category)]
	if !ok {
		return []string{fmt.Sprintf("unknown category %q", category)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []string{"file is empty"}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return []string{fmt.Sprintf("malformed csv: %v", err)}
	}
	if len(records) == 0 {
		return []string{"file is empty"}
	}

	var errs []string

	header := records[0]
	if len(header) != len(schema.fields) {
		errs = append(errs, fmt.Sprintf("expected %d columns, found %d", len(schema.fields), len(header)))
		return errs
	}
	for i, field := range schema.fields {
		if strings.TrimSpace(header[i]) != field.name {
			errs = append(errs, fmt.Sprintf("column %d must be %q, found %q", i+1, field.name, header[i]))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	if len(records) == 1 {
		return []string{"file has no data rows"}
	}

	seen := make(map[string]map[string]int)
	for _, field := range schema.fields {
		if field.unique {
			seen[field.name] = make(map[string]int)
		}
	}

	for rowIdx, record := range records[1:] {
		line := rowIdx + 2
		if len(record) != len(schema.fields) {
			errs = append(errs, fmt.Sprintf("row %d: expected %d columns, found %d", line, len(schema.fields), len(record)))
			continue
		}
		for colIdx, field := range schema.fields {
			value := strings.TrimSpace(record[colIdx])
			errs = append(errs, checkCell(field, value, line)...)
			if field.unique && value != "" {
				if firstLine, dup := seen[field.name][value]; dup {
					errs = append(errs, fmt.Sprintf("row %d: %s %q duplicates row %d", line, field.name, value, firstLine))
				} else {
					seen[field.name][value] = line
				}
			}
		}
	}

	return errs
}

func checkCell(field fieldRule, value string, line int) []string {
	if value == "" {
		if field.required {
			return []string{fmt.Sprintf("row %d: %s is required", line, field.name)}
		}
		return nil
	}

	switch field.kind {
	case kindEmail:
		if !emailPattern.MatchString(value) {
			return []string{fmt.Sprintf("row %d: %s %q is not a valid email", line, field.name, value)}
		}
	case kindInt:
		if _, err := strconv.Atoi(value); err != nil {
			return []string{fmt.Sprintf("row %d: %s %q is not a number", line, field.name, value)}
		}
	case kindPositiveInt:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return []string{fmt.Sprintf("row %d: %s %q must be a positive number", line, field.name, value)}
		}
	case kindEnum:
		for _, allowed := range field.enum {
			if value == allowed {
				return nil
			}
		}
		return []string{fmt.Sprintf("row %d: %s %q must be one of %s", line, field.name, value, strings.Join(field.enum, ", "))}
	}
	return nil
}
