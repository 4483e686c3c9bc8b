package route

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"opsdesk/src-server/model"
	"opsdesk/src-server/utils"
)

func Employees(muxer *http.ServeMux, as *utils.AppState) {
	type OneTaskRespBody struct {
		ID   int64  `json:"id"`
		Task string `json:"task"`
		Done bool   `json:"done"`
	}

	type EmployeeRespBody struct {
		ID         string            `json:"id"`
		Name       string            `json:"name"`
		Email      string            `json:"email"`
		Department string            `json:"department"`
		JobTitle   string            `json:"jobTitle"`
		StartDate  string            `json:"startDate,omitempty"`
		Onboarding []OneTaskRespBody `json:"onboarding,omitempty"`
	}

	toRespBody := func(employeeModel model.Employee) EmployeeRespBody {
		respBody := EmployeeRespBody{
			ID:         employeeModel.ID,
			Name:       employeeModel.Name,
			Email:      employeeModel.Email,
			Department: employeeModel.Department,
			JobTitle:   employeeModel.JobTitle,
		}
		if employeeModel.StartDateUnixUTC != 0 {
			respBody.StartDate = time.Unix(employeeModel.StartDateUnixUTC, 0).UTC().Format(time.DateOnly)
		}
		for _, taskModel := range employeeModel.OnboardingTasks {
			respBody.Onboarding = append(respBody.Onboarding, OneTaskRespBody{
				ID:   taskModel.ID,
				Task: taskModel.Task,
				Done: taskModel.Done,
			})
		}
		return respBody
	}

	// list all employees with their onboarding checklists
	muxer.HandleFunc("GET /employees", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		employeeModels := make([]model.Employee, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&employeeModels).
			Relation("OnboardingTasks").
			Order("name ASC").
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get employees"))
			slog.Error("can't get employees", "error", err)
			return
		}

		respBody := make([]EmployeeRespBody, 0, len(employeeModels))
		for _, employeeModel := range employeeModels {
			respBody = append(respBody, toRespBody(employeeModel))
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

	type UpsertEmployeeReqBody struct {
		Name       *string `json:"name"`
		Email      *string `json:"email"`
		Department *string `json:"department"`
		JobTitle   *string `json:"jobTitle"`
		StartDate  *string `json:"startDate"`
	}

	applyReqBody := func(employeeModel *model.Employee, reqBody UpsertEmployeeReqBody) error {
		if reqBody.Name != nil {
			employeeModel.Name = utils.CleanupString(*reqBody.Name)
		}
		if reqBody.Email != nil {
			employeeModel.Email = *reqBody.Email
		}
		if reqBody.Department != nil {
			employeeModel.Department = utils.CleanupString(*reqBody.Department)
		}
		if reqBody.JobTitle != nil {
			employeeModel.JobTitle = *reqBody.JobTitle
		}
		if reqBody.StartDate != nil {
			startDate, err := as.ParseDay(*reqBody.StartDate)
			if err != nil {
				return err
			}
			employeeModel.StartDateUnixUTC = startDate.Unix()
		}
		return nil
	}

	// create an employee
	muxer.HandleFunc("POST /employees", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var reqBody UpsertEmployeeReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		employeeModel := model.Employee{ID: uuid.NewString()}
		if err := applyReqBody(&employeeModel, reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a valid start date"))
			return
		}
		if err := employeeModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}

		respBodyJson, err := json.Marshal(toRespBody(employeeModel))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	// partially update an employee
	muxer.HandleFunc("PATCH /employees/{id}", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var reqBody UpsertEmployeeReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		employeeModel := new(model.Employee)
		err := as.BunDB.
			NewSelect().
			Model(employeeModel).
			Where("id = ?", r.PathValue("id")).
			Scan(r.Context())
		switch {
		case errors.Is(err, sql.ErrNoRows):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Employee not found"))
			return
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get employee"))
			slog.Error("can't get employee", "error", err)
			return
		}

		if err := applyReqBody(employeeModel, reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a valid start date"))
			return
		}
		if err := employeeModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}

		respBodyJson, err := json.Marshal(toRespBody(*employeeModel))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	// delete an employee and their onboarding checklist
	muxer.HandleFunc("DELETE /employees/{id}", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide an employee ID"))
			return
		}

		if _, err := as.BunDB.NewDelete().
			Model((*model.OnboardingTask)(nil)).
			Where("employee_id = ?", id).
			Exec(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't delete onboarding tasks"))
			slog.Error("can't delete onboarding tasks", "error", err)
			return
		}
		if _, err := as.BunDB.NewDelete().
			Model((*model.Employee)(nil)).
			Where("id = ?", id).
			Exec(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't delete employee"))
			slog.Error("can't delete employee", "error", err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
}
