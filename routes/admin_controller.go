package routes

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/ncc-robotics/workshop-survey/app"
	"github.com/ncc-robotics/workshop-survey/backend"
	"github.com/ncc-robotics/workshop-survey/export"
	"github.com/ncc-robotics/workshop-survey/httpx"
	"github.com/ncc-robotics/workshop-survey/log"
	"github.com/ncc-robotics/workshop-survey/model"
	"github.com/ncc-robotics/workshop-survey/store"
	"github.com/ncc-robotics/workshop-survey/wire"
)

type submissionView struct {
	model.StoredSubmission
	AvailabilityLabel string `json:"availabilityLabel"`
}

// ListSubmissions returns the currently loaded submissions, filtered by the
// optional q parameter, together with the data source that served them.
func ListSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs, source, err := app.Store.List(r.Context())
		if err != nil {
			var aerr *store.AggregateError
			if errors.As(err, &aerr) {
				log.Errorf("admin.list_submissions: %v", err)
				render.JSON(w, r, map[string]any{
					"submissions": []submissionView{},
					"dataSource":  source.String(),
					"error":       "could not load submissions from any store",
				})
				return
			}
			httpx.LogInternalError(w, "admin.list_submissions", err)
			return
		}

		subs = filterSubmissions(subs, r.URL.Query().Get("q"))

		views := make([]submissionView, 0, len(subs))
		for _, sub := range subs {
			views = append(views, submissionView{
				StoredSubmission:  sub,
				AvailabilityLabel: wire.FormatAvailabilityLabel(sub.Availability),
			})
		}

		render.JSON(w, r, map[string]any{
			"submissions": views,
			"dataSource":  source.String(),
			"count":       len(views),
		})
	}
}

// filterSubmissions is the dashboard's search box: a case-insensitive
// substring match over name, email, student id and department.
func filterSubmissions(subs []model.StoredSubmission, q string) []model.StoredSubmission {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return subs
	}

	matched := make([]model.StoredSubmission, 0, len(subs))
	for _, sub := range subs {
		for _, field := range []string{sub.Name, sub.Email, sub.StudentID, sub.Department} {
			if strings.Contains(strings.ToLower(field), q) {
				matched = append(matched, sub)
				break
			}
		}
	}
	return matched
}

// UpdateSubmission replaces the whole record at id in whichever store the
// session is reading from.
func UpdateSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		sub := model.StoredSubmission{}
		err := render.DecodeJSON(r.Body, &sub)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		updated, err := app.Store.Update(r.Context(), id, sub)
		if err != nil {
			respondStoreError(w, r, "admin.update_submission", id, err)
			return
		}

		render.JSON(w, r, updated)
	}
}

// DeleteSubmission removes the record at id from the active store.
func DeleteSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := app.Store.Delete(r.Context(), id)
		if err != nil {
			respondStoreError(w, r, "admin.delete_submission", id, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func respondStoreError(w http.ResponseWriter, r *http.Request, code, id string, err error) {
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		httpx.LogValidationErrors(w, r, code, verr.Fields)
		return
	}
	var nferr *backend.NotFoundError
	if errors.As(err, &nferr) {
		httpx.LogNotFound(w, code, id)
		return
	}
	// remote trouble is retryable; tell the operator instead of hiding it
	var neterr *backend.NetworkError
	var cfgerr *backend.ConfigurationError
	if errors.As(err, &neterr) || errors.As(err, &cfgerr) {
		httpx.LogStatusMsg(w, http.StatusBadGateway, log.WarnLevel, code,
			"the active backend did not respond; please retry")
		return
	}
	httpx.LogInternalError(w, code, err)
}

// ExportSubmissions streams the loaded submissions as a CSV attachment.
func ExportSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs, _, err := app.Store.List(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "admin.export_submissions", err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)

		err = export.WriteCSV(w, subs)
		if err != nil {
			log.Errorf("admin.export_submissions.write: %v", err)
		}
	}
}
