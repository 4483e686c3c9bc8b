package route

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"opsdesk/src-server/model"
	"opsdesk/src-server/utils"
)

func Equipment(muxer *http.ServeMux, as *utils.AppState) {
	type EquipmentRespBody struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Category     string `json:"category"`
		SerialNumber string `json:"serialNumber"`
		Status       string `json:"status"`
		Notes        string `json:"notes,omitempty"`
		AssigneeID   string `json:"assigneeId,omitempty"`
		AssigneeName string `json:"assigneeName,omitempty"`
	}

	toRespBody := func(equipmentModel model.Equipment) EquipmentRespBody {
		respBody := EquipmentRespBody{
			ID:           equipmentModel.ID,
			Name:         equipmentModel.Name,
			Category:     equipmentModel.Category,
			SerialNumber: equipmentModel.SerialNumber,
			Status:       string(equipmentModel.Status),
			Notes:        equipmentModel.Notes,
			AssigneeID:   equipmentModel.AssigneeID,
		}
		if equipmentModel.Assignee != nil {
			respBody.AssigneeName = equipmentModel.Assignee.Name
		}
		return respBody
	}

	// list all equipment with assignees resolved
	muxer.HandleFunc("GET /equipment", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		equipmentModels := make([]model.Equipment, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&equipmentModels).
			Relation("Assignee").
			Order("equipment.name ASC").
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get equipment"))
			slog.Error("can't get equipment", "error", err)
			return
		}

		respBody := make([]EquipmentRespBody, 0, len(equipmentModels))
		for _, equipmentModel := range equipmentModels {
			respBody = append(respBody, toRespBody(equipmentModel))
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

	type UpsertEquipmentReqBody struct {
		Name         *string `json:"name"`
		Category     *string `json:"category"`
		SerialNumber *string `json:"serialNumber"`
		Status       *string `json:"status"`
		Notes        *string `json:"notes"`
		AssigneeID   *string `json:"assigneeId"`
	}

	applyReqBody := func(r *http.Request, equipmentModel *model.Equipment, reqBody UpsertEquipmentReqBody) (int, string) {
		if reqBody.Name != nil {
			equipmentModel.Name = *reqBody.Name
		}
		if reqBody.Category != nil {
			equipmentModel.Category = utils.CleanupString(*reqBody.Category)
		}
		if reqBody.SerialNumber != nil {
			equipmentModel.SerialNumber = *reqBody.SerialNumber
		}
		if reqBody.Notes != nil {
			equipmentModel.Notes = *reqBody.Notes
		}
		if reqBody.Status != nil {
			status := model.EquipmentStatus(*reqBody.Status)
			if !model.ValidEquipmentStatus(status) {
				return http.StatusBadRequest, "Invalid status"
			}
			equipmentModel.Status = status
			if status != model.EQUIPMENT_STATUS_ASSIGNED {
				equipmentModel.AssigneeID = ""
			}
		}
		if reqBody.AssigneeID != nil && *reqBody.AssigneeID != "" {
			// assignment only sticks to an existing employee
			exists, err := as.BunDB.
				NewSelect().
				Model((*model.Employee)(nil)).
				Where("id = ?", *reqBody.AssigneeID).
				Exists(r.Context())
			switch {
			case err != nil:
				slog.Error("can't check if employee exists", "error", err)
				return http.StatusInternalServerError, "Can't check if employee exists"
			case !exists:
				return http.StatusBadRequest, "Assignee not found"
			}
			equipmentModel.AssigneeID = *reqBody.AssigneeID
			equipmentModel.Status = model.EQUIPMENT_STATUS_ASSIGNED
		}
		return http.StatusOK, ""
	}

	// register a piece of equipment
	muxer.HandleFunc("POST /equipment", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var reqBody UpsertEquipmentReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		equipmentModel := model.Equipment{
			ID:     uuid.NewString(),
			Status: model.EQUIPMENT_STATUS_AVAILABLE,
		}
		if code, msg := applyReqBody(r, &equipmentModel, reqBody); code != http.StatusOK {
			w.WriteHeader(code)
			w.Write([]byte(msg))
			return
		}
		if err := equipmentModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}

		respBodyJson, err := json.Marshal(toRespBody(equipmentModel))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	// partially update a piece of equipment (including (un)assignment)
	muxer.HandleFunc("PATCH /equipment/{id}", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var reqBody UpsertEquipmentReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		equipmentModel := new(model.Equipment)
		err := as.BunDB.
			NewSelect().
			Model(equipmentModel).
			Where("id = ?", r.PathValue("id")).
			Scan(r.Context())
		switch {
		case errors.Is(err, sql.ErrNoRows):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Equipment not found"))
			return
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get equipment"))
			slog.Error("can't get equipment", "error", err)
			return
		}

		if code, msg := applyReqBody(r, equipmentModel, reqBody); code != http.StatusOK {
			w.WriteHeader(code)
			w.Write([]byte(msg))
			return
		}
		if err := equipmentModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}

		respBodyJson, err := json.Marshal(toRespBody(*equipmentModel))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	// delete a piece of equipment
	muxer.HandleFunc("DELETE /equipment/{id}", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide an equipment ID"))
			return
		}

		if _, err := as.BunDB.NewDelete().
			Model((*model.Equipment)(nil)).
			Where("id = ?", id).
			Exec(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't delete equipment"))
			slog.Error("can't delete equipment", "error", err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
}
