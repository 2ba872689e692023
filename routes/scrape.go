package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"scout/controllers"
	"scout/utils/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
)

func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil && res == nil {
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(res)
	}
}

// ScrapeRoutes registers the scraping surface: scrape, cache control,
// status, static preview, and the websocket session.
func ScrapeRoutes(ctrl *controllers.ScrapeController) chi.Router {
	r := chi.NewRouter()

	// POST /scrape
	r.Post("/scrape", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.ScrapeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		resp, err := ctrl.Scrape(r.Context(), req)
		if errors.Is(err, controllers.ErrValidation) {
			return nil, http.StatusBadRequest, err
		}
		if err != nil {
			// resp carries the error bundle
			return resp, http.StatusInternalServerError, err
		}
		return resp, http.StatusOK, nil
	}))

	// DELETE /cache : drop every cached result
	r.Delete("/cache", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.ClearCache(""), http.StatusOK, nil
	}))

	// DELETE /cache/* : drop cached results for one target URL prefix
	r.Delete("/cache/*", handleJSON(func(r *http.Request) (any, int, error) {
		target, err := url.PathUnescape(chi.URLParam(r, "*"))
		if err != nil || target == "" {
			return nil, http.StatusBadRequest, errors.New("invalid cache target")
		}
		return ctrl.ClearCache(target), http.StatusOK, nil
	}))

	// GET /status
	r.Get("/status", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Status(), http.StatusOK, nil
	}))

	// GET /scrape/preview?url= : static fetch, no browser
	r.Get("/scrape/preview", handleJSON(func(r *http.Request) (any, int, error) {
		target := r.URL.Query().Get("url")
		resp, err := ctrl.Preview(r.Context(), target)
		if errors.Is(err, controllers.ErrValidation) {
			return nil, http.StatusBadRequest, err
		}
		if err != nil {
			return nil, http.StatusBadGateway, err
		}
		return resp, http.StatusOK, nil
	}))

	// GET /scrape/ws : one connection, many scrape requests
	r.Get("/scrape/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			if typ != websocket.MessageText {
				conn.Close(websocket.StatusUnsupportedData, "unsupported data")
				return
			}
			var req types.ScrapeRequest
			if err := json.Unmarshal(data, &req); err != nil {
				conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
				continue
			}
			resp, err := ctrl.Scrape(ctx, req)
			if resp == nil {
				resp = &types.ScrapeResponse{URL: req.URL, Error: err.Error()}
			}
			out, err := json.Marshal(resp)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, out); err != nil {
				return
			}
		}
	})

	return r
}
