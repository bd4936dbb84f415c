package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncc-robotics/workshop-survey/model"
)

func sampleRecord() model.SurveyRecord {
	return model.SurveyRecord{
		Name:                 "John Doe",
		Email:                "john.doe@student.ncc.edu",
		Phone:                "+1234567890",
		StudentID:            "NCC2024001",
		Batch:                "12th",
		Department:           "CSE",
		ExperienceLevel:      "beginner",
		WorkshopTopics:       []string{"arduino-basics", "sensor-integration"},
		ProgrammingLanguages: []string{"Python", "C/C++"},
		Availability:         "22 June 2025 (9 AM - 4 PM)",
		Expectations:         "Learn the basics of robotics.",
		AdditionalComments:   "Very excited to participate!",
	}
}

func TestToRecordRenamesFields(t *testing.T) {
	rec, err := ToRecord(sampleRecord(), KindSupabase)
	require.NoError(t, err)

	assert.Equal(t, "NCC2024001", rec["student_id"])
	assert.Equal(t, "beginner", rec["experience_level"])
	assert.Equal(t, []string{"arduino-basics", "sensor-integration"}, rec["workshop_topics"])
	assert.Equal(t, []string{"Python", "C/C++"}, rec["programming_languages"])
	assert.Equal(t, "Very excited to participate!", rec["additional_comments"])

	_, hasCamel := rec["studentId"]
	assert.False(t, hasCamel)
}

func TestToRecordDefaultsOptionalComment(t *testing.T) {
	in := sampleRecord()
	in.AdditionalComments = ""

	rec, err := ToRecord(in, KindAppwrite)
	require.NoError(t, err)
	assert.Equal(t, "", rec["additional_comments"])
}

func TestToRecordDoesNotMutateInput(t *testing.T) {
	in := sampleRecord()

	rec, err := ToRecord(in, KindSupabase)
	require.NoError(t, err)

	rec["workshop_topics"].([]string)[0] = "mutated"
	assert.Equal(t, "arduino-basics", in.WorkshopTopics[0])
}

func TestToRecordRejectsEmptyRequiredField(t *testing.T) {
	in := sampleRecord()
	in.Email = ""
	_, err := ToRecord(in, KindSupabase)
	assert.Error(t, err)

	in = sampleRecord()
	in.WorkshopTopics = nil
	_, err = ToRecord(in, KindSupabase)
	assert.Error(t, err)
}

func TestRoundTripBothKinds(t *testing.T) {
	for _, kind := range []Kind{KindAppwrite, KindSupabase} {
		t.Run(kind.String(), func(t *testing.T) {
			in := sampleRecord()

			rec, err := ToRecord(in, kind)
			require.NoError(t, err)

			out, err := FromRecord(rec, kind)
			require.NoError(t, err)
			assert.Equal(t, in, out.SurveyRecord)
		})
	}
}

func TestFromRecordToleratesEitherConvention(t *testing.T) {
	// a legacy local entry written under the camelCase convention
	rec := Record{
		"id":                   "abc123",
		"name":                 "Jane Smith",
		"email":                "jane.smith@student.ncc.edu",
		"phone":                "+1234567891",
		"studentId":            "NCC2024002",
		"batch":                "13th",
		"department":           "EEE",
		"experienceLevel":      "intermediate",
		"workshopTopics":       []any{"ai-robotics"},
		"programmingLanguages": []any{"Python", "MATLAB"},
		"availability":         "25 June 2025 (9 AM - 4 PM)",
		"expectations":         "Advanced AI applications.",
		"createdAt":            "2025-01-08T14:15:00Z",
	}

	sub, err := FromRecord(rec, KindSupabase)
	require.NoError(t, err)

	assert.Equal(t, "abc123", sub.ID)
	assert.Equal(t, "NCC2024002", sub.StudentID)
	assert.Equal(t, "intermediate", sub.ExperienceLevel)
	assert.Equal(t, []string{"Python", "MATLAB"}, sub.ProgrammingLanguages)
	assert.Equal(t, time.Date(2025, 1, 8, 14, 15, 0, 0, time.UTC), sub.CreatedAt)
	assert.Equal(t, "", sub.AdditionalComments)
}

func TestFromRecordAppwriteMetadata(t *testing.T) {
	rec := Record{
		"$id":          "doc-1",
		"$createdAt":   "2025-01-08T10:30:00.000+00:00",
		"name":         "John Doe",
		"email":        "john.doe@student.ncc.edu",
		"student_id":   "NCC2024001",
		"availability": "22 June 2025 (9 AM - 4 PM)",
	}

	sub, err := FromRecord(rec, KindAppwrite)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", sub.ID)
	assert.False(t, sub.CreatedAt.IsZero())
}

func TestFormatAvailabilityLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"22 June 2025-Sunday-(9 AM - 4 PM)", "22 June 2025 (Sunday)"},
		{"25 June 2025 (9 AM - 4 PM)", "25 June 2025 (9 AM - 4 PM)"},
		{"Weekends only", "Weekends only"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAvailabilityLabel(tt.in), "input %q", tt.in)
	}
}
