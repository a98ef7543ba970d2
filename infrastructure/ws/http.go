package ws

import (
	"chat-relay/auth"
	"chat-relay/errors"
	"chat-relay/services"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RegisterRequest struct {
	Name string `json:"name"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

// NewRouter mounts the whole HTTP surface: probes, metrics, registration and the websocket.
func NewRouter(log *slog.Logger, gateway *Gateway, tokens *auth.Tokens, authService services.IAuthService, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("POST /users", registerHandler(log, authService))
	mux.Handle("/ws", tokens.Middleware(log, gateway))
	return mux
}

func registerHandler(log *slog.Logger, authService services.IAuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorData{Code: "bad_request", Detail: "invalid JSON"})
			return
		}
		user, token, err := authService.Register(r.Context(), req.Name)
		if err != nil {
			code := errors.Code(err)
			status := http.StatusInternalServerError
			if code == "bad_request" {
				status = http.StatusBadRequest
			} else {
				log.Error("http.register.fail", "error", err)
			}
			writeJSON(w, status, ErrorData{Code: code, Detail: err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, RegisterResponse{UserID: user.ID.String(), Name: user.Name, Token: token.String()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
