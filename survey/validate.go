// Package survey holds the field validation applied to a draft submission
// before create and before an admin edit is saved.
package survey

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ncc-robotics/workshop-survey/model"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// report errors under the JSON field names the form uses,
	// not the Go struct names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

var messages = map[string]string{
	"name":                 "Name is required",
	"email":                "Please enter a valid email address",
	"phone":                "Phone number is required",
	"studentId":            "Student ID is required",
	"batch":                "Please select your batch",
	"department":           "Please select your department",
	"experienceLevel":      "Please select your experience level",
	"workshopTopics":       "Please select at least one workshop topic",
	"programmingLanguages": "Please select at least one programming language",
	"availability":         "Please select your preferred workshop date",
	"expectations":         "Please tell us what you expect from the workshop",
}

// Validate checks every field of a draft record independently and returns a
// field name to message mapping for each failing field. An empty map means
// the record is valid. Nothing short-circuits, so a caller can display every
// error at once.
func Validate(rec model.SurveyRecord) map[string]string {
	errs := map[string]string{}

	err := validate.Struct(rec)
	if err == nil {
		return errs
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["record"] = err.Error()
		return errs
	}

	for _, fe := range fieldErrors {
		field := fe.Field()
		if msg, ok := messages[field]; ok {
			errs[field] = msg
		} else {
			errs[field] = "Invalid value"
		}
	}
	return errs
}
