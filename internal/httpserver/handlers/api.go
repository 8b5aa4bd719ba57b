package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/bookmarks"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

const maxListBytes = 1 << 20

var (
	errNotArray     = errors.New("body is not a JSON array")
	errTrailingData = errors.New("unexpected data after JSON array")
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeStorageError(w http.ResponseWriter, d deps.Deps, userID string, err error) {
	d.Logger.Error("api storage call failed", logger.String("user_id", userID), logger.Error(err))
	if errors.Is(err, bookmarks.ErrMalformedData) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "malformed bookmark data"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage error"})
}

// ListUsers returns the configured user ids in order.
func ListUsers(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Storage.GetUserIDs())
	}
}

// GetBookmarks returns the stored list as-is, or 404 when nothing is stored.
func GetBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		list, ok, err := d.Storage.GetData(r.Context(), userID)
		if err != nil {
			writeStorageError(w, d, userID, err)
			return
		}
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no bookmarks stored for user"})
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// PutBookmarks replaces the stored list with the request body.
func PutBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")

		list, err := decodeList(http.MaxBytesReader(w, r.Body, maxListBytes))
		if err != nil {
			d.Logger.Debug("rejecting bookmark list", logger.String("user_id", userID), logger.Error(err))
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be a JSON array of bookmarks"})
			return
		}

		if err := d.Storage.SetData(r.Context(), userID, list); err != nil {
			writeStorageError(w, d, userID, err)
			return
		}
		d.Logger.Info("bookmarks replaced via api",
			logger.String("user_id", userID),
			logger.Int("count", len(list)))
		w.WriteHeader(http.StatusNoContent)
	}
}

// decodeList reads exactly one JSON array from body. null and trailing data are rejected.
func decodeList(body io.Reader) ([]domain.Bookmark, error) {
	var list []domain.Bookmark
	dec := json.NewDecoder(body)
	if err := dec.Decode(&list); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, errNotArray
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return list, nil
}

// DeleteBookmarks clears the stored list. Clearing an absent list succeeds.
func DeleteBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		if err := d.Storage.ClearData(r.Context(), userID); err != nil {
			writeStorageError(w, d, userID, err)
			return
		}
		d.Logger.Info("bookmarks cleared via api", logger.String("user_id", userID))
		w.WriteHeader(http.StatusNoContent)
	}
}
