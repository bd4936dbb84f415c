package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/ncc-robotics/workshop-survey/app"
	"github.com/ncc-robotics/workshop-survey/httpx"
	"github.com/ncc-robotics/workshop-survey/log"
	"github.com/ncc-robotics/workshop-survey/model"
	"github.com/ncc-robotics/workshop-survey/store"
)

// SubmitSurvey accepts a completed registration. A submission only fails on
// invalid input; when the remote backend is down the record lands in the
// local fallback and the response says so in the source field.
func SubmitSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := model.SurveyRecord{}
		err := render.DecodeJSON(r.Body, &rec)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		sub, outcome, err := app.Store.Create(r.Context(), rec)
		if err != nil {
			var verr *store.ValidationError
			if errors.As(err, &verr) {
				httpx.LogValidationErrors(w, r, "submit_survey", verr.Fields)
				return
			}
			httpx.LogInternalError(w, "store.create_submission", err)
			return
		}

		if outcome.FallbackReason != nil {
			log.Infof("submit_survey: stored locally (%v)", outcome.FallbackReason)
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"submission": sub,
			"source":     outcome.Source.String(),
		})
	}
}
