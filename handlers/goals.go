// handlers/goals.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"questpath/apiclient"
	"questpath/middleware"
	"questpath/models"
	"questpath/views"
)

const (
	emptyGoalMessage  = "What do you want to learn?"
	createGoalFailed  = "Failed to create goal. Please try again."
	createGoalPending = "Your goal is already being created."
	createGoalAction  = "create-goal"
)

type GoalExample struct {
	Emoji string
	Text  string
}

var goalExamples = []GoalExample{
	{"🌐", "Learn web development"},
	{"🐍", "Master Python"},
	{"🎨", "UI/UX design"},
	{"🤖", "Machine learning"},
	{"📱", "Mobile app dev"},
	{"⚡", "Master TypeScript"},
}

type NewGoalData struct {
	views.Layout
	Description string
	Error       string
	Examples    []GoalExample
}

type GoalDetailData struct {
	views.Layout
	ID   int
	Goal views.Snapshot[*models.Goal]
}

func newGoalData(r *http.Request, description, errMsg string) NewGoalData {
	return NewGoalData{
		Layout:      layout(r, "Create New Goal", "dashboard"),
		Description: description,
		Error:       errMsg,
		Examples:    goalExamples,
	}
}

// NewGoalPage renders the goal form. Example links prefill it through
// the description query parameter.
func NewGoalPage(pages Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := newGoalData(r, r.URL.Query().Get("description"), "")
		data.Flashes = popFlashes(w, r)
		pages.Render(w, http.StatusOK, "goal_new", data)
	}
}

func CreateGoal(api *apiclient.Client, pages Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			pages.Render(w, http.StatusBadRequest, "goal_new", newGoalData(r, "", emptyGoalMessage))
			return
		}

		typed := r.PostFormValue("description")
		description := strings.TrimSpace(typed)
		if description == "" {
			pages.Render(w, http.StatusUnprocessableEntity, "goal_new", newGoalData(r, typed, emptyGoalMessage))
			return
		}

		st := middleware.Store(r.Context())
		if !st.TryBegin(createGoalAction) {
			pages.Render(w, http.StatusConflict, "goal_new", newGoalData(r, typed, createGoalPending))
			return
		}
		defer st.End(createGoalAction)

		goal, err := clientFor(api, r).CreateGoal(r.Context(), description)
		if expired(w, r, err) {
			return
		}
		if err != nil {
			pages.Render(w, failureStatus(err), "goal_new", newGoalData(r, typed, apiclient.MessageOr(err, createGoalFailed)))
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/goals/%d", goal.ID), http.StatusSeeOther)
	}
}

func GoalPage(api *apiclient.Client, pages Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil || id <= 0 {
			NotFoundPage(pages)(w, r)
			return
		}

		var goal views.Page[*models.Goal]
		snap := goal.Load(r.Context(), func(ctx context.Context) (*models.Goal, error) {
			return clientFor(api, r).Goal(ctx, id)
		})
		if expired(w, r, snap.Err) {
			return
		}
		if apiErr, ok := apiclient.AsError(snap.Err); ok && apiErr.Status == http.StatusNotFound {
			NotFoundPage(pages)(w, r)
			return
		}

		title := "Goal"
		if snap.Loaded() && snap.Data != nil {
			title = snap.Data.Title
		}
		data := GoalDetailData{
			Layout: layout(r, title, "dashboard"),
			ID:     id,
			Goal:   snap,
		}
		data.Flashes = popFlashes(w, r)

		pages.Render(w, http.StatusOK, "goal_detail", data)
	}
}

// failureStatus picks the response code for a form whose API call
// failed: the backend's own 4xx, or 502 when the backend is at fault.
func failureStatus(err error) int {
	if apiErr, ok := apiclient.AsError(err); ok && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}
