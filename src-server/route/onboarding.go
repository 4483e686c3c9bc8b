package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"opsdesk/src-server/model"
	"opsdesk/src-server/utils"
)

func Onboarding(muxer *http.ServeMux, as *utils.AppState) {
	type TaskRespBody struct {
		ID         int64  `json:"id"`
		Task       string `json:"task"`
		Done       bool   `json:"done"`
		EmployeeID string `json:"employeeId"`
	}

	toRespBody := func(taskModel model.OnboardingTask) TaskRespBody {
		return TaskRespBody{
			ID:         taskModel.ID,
			Task:       taskModel.Task,
			Done:       taskModel.Done,
			EmployeeID: taskModel.EmployeeID,
		}
	}

	// list one employee's onboarding checklist
	muxer.HandleFunc("GET /employees/{id}/onboarding", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		taskModels := make([]model.OnboardingTask, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&taskModels).
			Where("employee_id = ?", r.PathValue("id")).
			Order("id ASC").
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get onboarding tasks"))
			slog.Error("can't get onboarding tasks", "error", err)
			return
		}

		respBody := make([]TaskRespBody, 0, len(taskModels))
		for _, taskModel := range taskModels {
			respBody = append(respBody, toRespBody(taskModel))
		}
		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	type CreateTaskReqBody struct {
		Task string `json:"task"`
	}

	// add a task to an employee's checklist
	muxer.HandleFunc("POST /employees/{id}/onboarding", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var reqBody CreateTaskReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		employeeID := r.PathValue("id")
		exists, err := as.BunDB.
			NewSelect().
			Model((*model.Employee)(nil)).
			Where("id = ?", employeeID).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't check if employee exists"))
			slog.Error("can't check if employee exists", "error", err)
			return
		case !exists:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Employee not found"))
			return
		}

		taskModel := model.OnboardingTask{
			Task:       reqBody.Task,
			EmployeeID: employeeID,
		}
		if err := taskModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}

		respBodyJson, err := json.Marshal(toRespBody(taskModel))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	type PatchTaskReqBody struct {
		Task *string `json:"task"`
		Done *bool   `json:"done"`
	}

	// rename or tick off a task
	muxer.HandleFunc("PATCH /onboarding/{id}", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a numeric task ID"))
			return
		}

		var reqBody PatchTaskReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		taskModel := new(model.OnboardingTask)
		exists, err := as.BunDB.
			NewSelect().
			Model((*model.OnboardingTask)(nil)).
			Where("id = ?", taskID).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't check if task exists"))
			slog.Error("can't check if task exists", "error", err)
			return
		case !exists:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Task not found"))
			return
		}
		if err := as.BunDB.
			NewSelect().
			Model(taskModel).
			Where("id = ?", taskID).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get task"))
			slog.Error("can't get task", "error", err)
			return
		}

		if reqBody.Task != nil {
			taskModel.Task = *reqBody.Task
		}
		if reqBody.Done != nil {
			taskModel.Done = *reqBody.Done
		}
		if err := taskModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}

		respBodyJson, err := json.Marshal(toRespBody(*taskModel))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	// remove a task from a checklist
	muxer.HandleFunc("DELETE /onboarding/{id}", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a numeric task ID"))
			return
		}

		if _, err := as.BunDB.NewDelete().
			Model((*model.OnboardingTask)(nil)).
			Where("id = ?", taskID).
			Exec(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't delete task"))
			slog.Error("can't delete task", "error", err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
}
