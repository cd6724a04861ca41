package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bsco/arena-lobby-backend/internal/model"
	"github.com/bsco/arena-lobby-backend/internal/repo"
)

type lobbyRequest struct {
	Action    string       `json:"action"`
	Code      string       `json:"code"`
	LobbyData *repo.Update `json:"lobbyData"`
}

type lobbyResponse struct {
	Success bool         `json:"success,omitempty"`
	Code    string       `json:"code,omitempty"`
	Lobby   *model.Lobby `json:"lobby,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body lobbyResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps repository errors onto the wire taxonomy: 400 for a
// missing code, 404 for an unknown one, 500 for persistence failures and
// anything unexpected.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, repo.ErrMissingCode):
		writeJSON(w, http.StatusBadRequest, lobbyResponse{Error: "code required"})
	case errors.Is(err, repo.ErrNotFound):
		writeJSON(w, http.StatusNotFound, lobbyResponse{Error: "not found"})
	default:
		log.Error("lobby request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, lobbyResponse{Error: "server error"})
	}
}

// HandleLobbyAction dispatches the POST /lobby action verbs.
func HandleLobbyAction(r *repo.Repository, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body lobbyRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, lobbyResponse{Error: "invalid json"})
			return
		}

		ctx := req.Context()
		switch body.Action {
		case "create":
			code, err := r.Create(ctx)
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, lobbyResponse{Success: true, Code: code})

		case "join":
			lobby, err := r.Join(ctx, body.Code)
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, lobbyResponse{Success: true, Code: lobby.Code, Lobby: lobby})

		case "get":
			lobby, err := r.Get(ctx, body.Code)
			if err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, lobbyResponse{Success: true, Code: lobby.Code, Lobby: lobby})

		case "update":
			var upd repo.Update
			if body.LobbyData != nil {
				upd = *body.LobbyData
			}
			if err := r.Apply(ctx, body.Code, upd); err != nil {
				writeError(w, log, err)
				return
			}
			writeJSON(w, http.StatusOK, lobbyResponse{Success: true})

		default:
			writeJSON(w, http.StatusBadRequest, lobbyResponse{Error: "invalid action"})
		}
	}
}

// HandleLobbyGet serves GET /lobby?code=XXXXXX.
func HandleLobbyGet(r *repo.Repository, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		lobby, err := r.Get(req.Context(), req.URL.Query().Get("code"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, lobbyResponse{Success: true, Lobby: lobby})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
