package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"scout/config"
	"scout/controllers"
	"scout/middlewares"

	"github.com/go-chi/chi/v5"
)

// DocumentRoutes registers the document analysis surface. Everything
// here requires a Bearer token.
func DocumentRoutes(ctrl *controllers.DocumentsController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// POST /documents/analyze
		gr.Post("/analyze", handleJSON(func(r *http.Request) (any, int, error) {
			var req controllers.AnalyzeDocumentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			record, err := ctrl.AnalyzeDocument(r.Context(), userID, req)
			if errors.Is(err, controllers.ErrValidation) {
				return nil, http.StatusBadRequest, err
			}
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return record, http.StatusOK, nil
		}))

		// GET /documents/records
		gr.Get("/records", handleJSON(func(r *http.Request) (any, int, error) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			records, err := ctrl.ListRecords(r.Context(), userID)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return records, http.StatusOK, nil
		}))

		// GET /documents/records/{record_id}
		gr.Get("/records/{record_id}", handleJSON(func(r *http.Request) (any, int, error) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			record, err := ctrl.GetRecord(r.Context(), userID, chi.URLParam(r, "record_id"))
			if errors.Is(err, controllers.ErrValidation) {
				return nil, http.StatusBadRequest, err
			}
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			if record == nil {
				return nil, http.StatusNotFound, errors.New("record not found")
			}
			return record, http.StatusOK, nil
		}))

		// GET /documents/records/{record_id}/summary : archived page texts
		gr.Get("/records/{record_id}/summary", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			data, err := ctrl.GetRecordSummary(r.Context(), userID, chi.URLParam(r, "record_id"))
			if errors.Is(err, controllers.ErrValidation) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if data == nil {
				http.Error(w, "summary not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(data)
		})
	})

	return r
}
