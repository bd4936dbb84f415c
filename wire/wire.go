// Package wire translates between the in-memory survey record and the
// storage records of the configured backends. Each backend kind carries its
// own mapping table; adding a backend means adding a kind and a table.
package wire

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncc-robotics/workshop-survey/model"
)

type Kind int

const (
	KindAppwrite Kind = iota
	KindSupabase
)

func (k Kind) String() string {
	switch k {
	case KindAppwrite:
		return "appwrite"
	case KindSupabase:
		return "supabase"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// TimestampField returns the wire name kind uses for the creation instant.
func (k Kind) TimestampField() string {
	return mappings[k].createdAt
}

// Record is the wire-shaped representation of a submission as stored or
// transmitted by a specific backend.
type Record map[string]any

// ID returns the record's identifier under any convention in use.
func (r Record) ID() string {
	return str(r, "$id", "id")
}

// mapping describes one backend's storage-record conventions.
type mapping struct {
	id        string
	createdAt string
	// camelCase field name -> wire field name
	fields map[string]string
}

var snakeFields = map[string]string{
	"name":                 "name",
	"email":                "email",
	"phone":                "phone",
	"studentId":            "student_id",
	"batch":                "batch",
	"department":           "department",
	"experienceLevel":      "experience_level",
	"workshopTopics":       "workshop_topics",
	"programmingLanguages": "programming_languages",
	"availability":         "availability",
	"expectations":         "expectations",
	"additionalComments":   "additional_comments",
}

var mappings = map[Kind]mapping{
	KindAppwrite: {id: "$id", createdAt: "submitted_at", fields: snakeFields},
	KindSupabase: {id: "id", createdAt: "created_at", fields: snakeFields},
}

// ToRecord renames a survey record into kind's wire convention. The input is
// never mutated and list fields are copied. It fails only on an empty
// required field; full validation is the caller's job.
func ToRecord(rec model.SurveyRecord, kind Kind) (Record, error) {
	required := map[string]string{
		"name":            rec.Name,
		"email":           rec.Email,
		"phone":           rec.Phone,
		"studentId":       rec.StudentID,
		"batch":           rec.Batch,
		"department":      rec.Department,
		"experienceLevel": rec.ExperienceLevel,
		"availability":    rec.Availability,
		"expectations":    rec.Expectations,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("wire: required field %q is empty", name)
		}
	}
	if len(rec.WorkshopTopics) == 0 {
		return nil, fmt.Errorf("wire: required field %q is empty", "workshopTopics")
	}
	if len(rec.ProgrammingLanguages) == 0 {
		return nil, fmt.Errorf("wire: required field %q is empty", "programmingLanguages")
	}

	m := mappings[kind].fields
	out := Record{
		m["name"]:                 rec.Name,
		m["email"]:                rec.Email,
		m["phone"]:                rec.Phone,
		m["studentId"]:            rec.StudentID,
		m["batch"]:                rec.Batch,
		m["department"]:           rec.Department,
		m["experienceLevel"]:      rec.ExperienceLevel,
		m["workshopTopics"]:       append([]string(nil), rec.WorkshopTopics...),
		m["programmingLanguages"]: append([]string(nil), rec.ProgrammingLanguages...),
		m["availability"]:         rec.Availability,
		m["expectations"]:         rec.Expectations,
		m["additionalComments"]:   rec.AdditionalComments,
	}
	return out, nil
}

// FromRecord maps a wire record back to a StoredSubmission. The record may
// have been produced by either backend kind or by the local fallback store,
// which holds whatever convention was current when it was written, so every
// field is looked up under both namings. Missing optional fields come back
// as empty strings; an unparseable timestamp comes back as the zero time.
func FromRecord(rec Record, kind Kind) (model.StoredSubmission, error) {
	if rec == nil {
		return model.StoredSubmission{}, fmt.Errorf("wire: nil record")
	}

	m := mappings[kind]
	sub := model.StoredSubmission{
		ID: str(rec, m.id, "id", "$id"),
		SurveyRecord: model.SurveyRecord{
			Name:                 str(rec, "name"),
			Email:                str(rec, "email"),
			Phone:                str(rec, "phone"),
			StudentID:            str(rec, "student_id", "studentId"),
			Batch:                str(rec, "batch"),
			Department:           str(rec, "department"),
			ExperienceLevel:      str(rec, "experience_level", "experienceLevel"),
			WorkshopTopics:       strs(rec, "workshop_topics", "workshopTopics"),
			ProgrammingLanguages: strs(rec, "programming_languages", "programmingLanguages"),
			Availability:         str(rec, "availability"),
			Expectations:         str(rec, "expectations"),
			AdditionalComments:   str(rec, "additional_comments", "additionalComments"),
		},
		CreatedAt: timestamp(rec, m.createdAt, "submitted_at", "created_at", "$createdAt", "createdAt"),
	}
	return sub, nil
}

func str(rec Record, keys ...string) string {
	for _, key := range keys {
		if v, ok := rec[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func strs(rec Record, keys ...string) []string {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case []string:
			return append([]string(nil), v...)
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			return out
		}
	}
	return nil
}

func timestamp(rec Record, keys ...string) time.Time {
	for _, key := range keys {
		raw, ok := rec[key].(string)
		if !ok || raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// FormatAvailabilityLabel reduces a composite availability value to
// "<date> (<second segment>)" for display. Values with fewer than two
// hyphen-joined segments are returned verbatim; legacy data is never
// rewritten in place.
func FormatAvailabilityLabel(raw string) string {
	parts := splitComposite(raw)
	if len(parts) < 2 {
		return raw
	}
	return fmt.Sprintf("%s (%s)", strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
}

// Availability values have gone through three literal formats: a plain label,
// date+time, and date-weekday-time joined with bare hyphens. A hyphen with a
// space on either side belongs to a time range ("9 AM - 4 PM"), never to the
// composite format.
func splitComposite(raw string) []string {
	var parts []string
	last := 0
	for i := 1; i < len(raw)-1; i++ {
		if raw[i] != '-' || raw[i-1] == ' ' || raw[i+1] == ' ' {
			continue
		}
		parts = append(parts, raw[last:i])
		last = i + 1
	}
	return append(parts, raw[last:])
}
