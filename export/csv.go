// Package export renders loaded submissions as a CSV download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ncc-robotics/workshop-survey/model"
)

// Headers is the fixed column layout of an export, one column per submission
// field plus the creation timestamp.
var Headers = []string{
	"Name", "Email", "Phone", "Student ID", "Batch", "Department",
	"Experience Level", "Workshop Topics", "Programming Languages",
	"Availability", "Expectations", "Additional Comments", "Submitted At",
}

// WriteCSV writes a header row and one row per submission. Quoting and
// escaping follow standard CSV rules; list fields are joined with "; ".
func WriteCSV(w io.Writer, subs []model.StoredSubmission) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Headers); err != nil {
		return err
	}
	for _, sub := range subs {
		submitted := ""
		if !sub.CreatedAt.IsZero() {
			submitted = sub.CreatedAt.Format("2006-01-02 15:04:05")
		}
		row := []string{
			sub.Name,
			sub.Email,
			sub.Phone,
			sub.StudentID,
			sub.Batch,
			sub.Department,
			sub.ExperienceLevel,
			strings.Join(sub.WorkshopTopics, "; "),
			strings.Join(sub.ProgrammingLanguages, "; "),
			sub.Availability,
			sub.Expectations,
			sub.AdditionalComments,
			submitted,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename names an export after the day it was taken.
func Filename(now time.Time) string {
	return fmt.Sprintf("workshop-submissions-%s.csv", now.Format("2006-01-02"))
}
