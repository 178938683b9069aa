package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCSVAcceptsValidDepartmentFile(t *testing.T) {
	data := []byte("id,name\nd1,Computer Science\nd2,Mathematics\n")
	assert.Empty(t, ValidateCSV("DEPARTMENT", data))
}

func TestValidateCSVCategoryIsCaseInsensitive(t *testing.T) {
	data := []byte("id,name\nd1,Computer Science\n")
	assert.Empty(t, ValidateCSV("department", data))
}

func TestValidateCSVAcceptsValidTeacherFile(t *testing.T) {
	data := []byte("id,name,email,phone,department\n" +
		"t1,Alice Marsh,alice@campus.edu,555-0101,CS\n" +
		"t2,Bram Kovac,bram@campus.edu,,CS\n")
	assert.Empty(t, ValidateCSV("TEACHER", data))
}

func TestValidateCSVRejectsUnknownCategory(t *testing.T) {
	errs := ValidateCSV("BUILDING", []byte("id,name\nb1,Annex\n"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unknown category")
}

func TestValidateCSVRejectsEmptyFile(t *testing.T) {
	errs := ValidateCSV("DEPARTMENT", []byte("  \n "))
	require.Len(t, errs, 1)
	assert.Equal(t, "file is empty", errs[0])
}

func TestValidateCSVRejectsHeaderOnlyFile(t *testing.T) {
	errs := ValidateCSV("DEPARTMENT", []byte("id,name\n"))
	require.Len(t, errs, 1)
	assert.Equal(t, "file has no data rows", errs[0])
}

func TestValidateCSVRejectsWrongHeaderCount(t *testing.T) {
	errs := ValidateCSV("DEPARTMENT", []byte("id,name,extra\nd1,CS,x\n"))
	require.Len(t, errs, 1)
	assert.Equal(t, "expected 2 columns, found 3", errs[0])
}

func TestValidateCSVRejectsMisnamedHeader(t *testing.T) {
	errs := ValidateCSV("DEPARTMENT", []byte("id,title\nd1,CS\n"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `column 2 must be "name"`)
}

func TestValidateCSVRejectsShortRow(t *testing.T) {
	errs := ValidateCSV("DEPARTMENT", []byte("id,name\nd1\n"))
	require.Len(t, errs, 1)
	assert.Equal(t, "row 2: expected 2 columns, found 1", errs[0])
}

func TestValidateCSVRejectsMissingRequiredCell(t *testing.T) {
	errs := ValidateCSV("DEPARTMENT", []byte("id,name\nd1,\n"))
	require.Len(t, errs, 1)
	assert.Equal(t, "row 2: name is required", errs[0])
}

func TestValidateCSVRejectsBadEmail(t *testing.T) {
	data := []byte("id,name,email,phone,department\nt1,Alice,not-an-email,,CS\n")
	errs := ValidateCSV("TEACHER", data)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "not a valid email")
}

func TestValidateCSVRejectsDuplicateIDReferencingFirstRow(t *testing.T) {
	data := []byte("id,name\nd1,CS\nd2,Math\nd1,Physics\n")
	errs := ValidateCSV("DEPARTMENT", data)
	require.Len(t, errs, 1)
	assert.Equal(t, `row 4: id "d1" duplicates row 2`, errs[0])
}

func TestValidateCSVRejectsBadEnum(t *testing.T) {
	data := []byte("id,name,ectsCredits,department,teacherId,sessionType,sessionsPerWeek\n" +
		"c1,Algorithms,8,CS,t1,WORKSHOP,2\n")
	errs := ValidateCSV("COURSE", data)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "must be one of LECTURE, LAB, SEMINAR")
}

func TestValidateCSVRejectsNonPositiveCount(t *testing.T) {
	data := []byte("id,name,ectsCredits,department,teacherId,sessionType,sessionsPerWeek\n" +
		"c1,Algorithms,8,CS,t1,LECTURE,0\n")
	errs := ValidateCSV("COURSE", data)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "must be a positive number")
}

func TestValidateCSVCollectsMultipleErrors(t *testing.T) {
	data := []byte("id,name,capacity,type,buildingId,floor\n" +
		"r1,,abc,GARAGE,b1,two\n" +
		"r1,Main Hall,60,LECTURE,b1,1\n")
	errs := ValidateCSV("CLASSROOM", data)
	assert.Contains(t, errs, "row 2: name is required")
	assert.Contains(t, errs, `row 2: capacity "abc" must be a positive number`)
	assert.Contains(t, errs, "row 2: type \"GARAGE\" must be one of LECTURE, LAB, SEMINAR")
	assert.Contains(t, errs, `row 2: floor "two" is not a number`)
	assert.Contains(t, errs, `row 3: id "r1" duplicates row 2`)
}

func TestSupportedCategory(t *testing.T) {
	assert.True(t, SupportedCategory("COURSE"))
	assert.True(t, SupportedCategory("sgcourse"))
	assert.False(t, SupportedCategory("SEMESTER"))
}
