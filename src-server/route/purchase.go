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

func Purchases(muxer *http.ServeMux, as *utils.AppState) {
	type PurchaseRespBody struct {
		ID            string `json:"id"`
		Item          string `json:"item"`
		Quantity      int    `json:"quantity"`
		Status        string `json:"status"`
		RequesterID   string `json:"requesterId"`
		RequesterName string `json:"requesterName,omitempty"`
	}

	toRespBody := func(purchaseModel model.PurchaseRequest) PurchaseRespBody {
		respBody := PurchaseRespBody{
			ID:          purchaseModel.ID,
			Item:        purchaseModel.Item,
			Quantity:    purchaseModel.Quantity,
			Status:      string(purchaseModel.Status),
			RequesterID: purchaseModel.RequesterID,
		}
		if purchaseModel.Requester != nil {
			respBody.RequesterName = purchaseModel.Requester.Name
		}
		return respBody
	}

	// list all purchase requests
	muxer.HandleFunc("GET /purchases", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		purchaseModels := make([]model.PurchaseRequest, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&purchaseModels).
			Relation("Requester").
			Order("purchase_request.created_at DESC").
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get purchase requests"))
			slog.Error("can't get purchase requests", "error", err)
			return
		}

		respBody := make([]PurchaseRespBody, 0, len(purchaseModels))
		for _, purchaseModel := range purchaseModels {
			respBody = append(respBody, toRespBody(purchaseModel))
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

	type CreatePurchaseReqBody struct {
		Item        string `json:"item"`
		Quantity    int    `json:"quantity"`
		RequesterID string `json:"requesterId"`
	}

	// file a purchase request; every request starts out pending
	muxer.HandleFunc("POST /purchases", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var reqBody CreatePurchaseReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		exists, err := as.BunDB.
			NewSelect().
			Model((*model.Employee)(nil)).
			Where("id = ?", reqBody.RequesterID).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't check if requester exists"))
			slog.Error("can't check if requester exists", "error", err)
			return
		case !exists:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Requester not found"))
			return
		}

		purchaseModel := model.PurchaseRequest{
			ID:          uuid.NewString(),
			Item:        reqBody.Item,
			Quantity:    reqBody.Quantity,
			Status:      model.PURCHASE_STATUS_PENDING,
			RequesterID: reqBody.RequesterID,
		}
		if err := purchaseModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}

		respBodyJson, err := json.Marshal(toRespBody(purchaseModel))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	type PatchPurchaseReqBody struct {
		Status string `json:"status"`
	}

	// move a purchase request through its lifecycle
	muxer.HandleFunc("PATCH /purchases/{id}/status", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var reqBody PatchPurchaseReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		purchaseModel := new(model.PurchaseRequest)
		err := as.BunDB.
			NewSelect().
			Model(purchaseModel).
			Where("id = ?", r.PathValue("id")).
			Scan(r.Context())
		switch {
		case errors.Is(err, sql.ErrNoRows):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Purchase request not found"))
			return
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get purchase request"))
			slog.Error("can't get purchase request", "error", err)
			return
		}

		newStatus := model.PurchaseStatus(reqBody.Status)
		if !model.ValidPurchaseTransition(purchaseModel.Status, newStatus) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid status transition"))
			return
		}
		purchaseModel.Status = newStatus
		if err := purchaseModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(err.Error()))
			return
		}

		respBodyJson, err := json.Marshal(toRespBody(*purchaseModel))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	// withdraw a purchase request
	muxer.HandleFunc("DELETE /purchases/{id}", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a purchase request ID"))
			return
		}

		if _, err := as.BunDB.NewDelete().
			Model((*model.PurchaseRequest)(nil)).
			Where("id = ?", id).
			Exec(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't delete purchase request"))
			slog.Error("can't delete purchase request", "error", err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
}
