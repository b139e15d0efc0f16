// Command mock-provider stands in for Resend and DeepSeek during local
// development. Point RESEND_BASE_URL and DEEPSEEK_BASE_URL at it.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/logging"
)

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func main() {
	logging.Init("mock-provider", "info", os.Getenv("APP_ENV"))

	addr := ":8081"
	if v := os.Getenv("MOCK_PROVIDER_ADDR"); v != "" {
		addr = v
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /emails", handleEmail)
	mux.HandleFunc("POST /chat/completions", handleChat)

	slog.Info("mock provider started", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// handleEmail accepts everything except recipients on the fail.example
// domain, which get a 422 to exercise the failure path.
func handleEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	for _, to := range req.To {
		if strings.HasSuffix(to, "@fail.example") {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "recipient rejected"})
			return
		}
	}

	id := uuid.NewString()
	slog.Info("email accepted", "id", id, "to", req.To, "subject", req.Subject, "html_bytes", len(req.HTML))
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}

	var last string
	if n := len(req.Messages); n > 0 {
		last = req.Messages[n-1].Content
	}
	slog.Info("chat completion", "model", req.Model, "messages", len(req.Messages))

	writeJSON(w, http.StatusOK, map[string]any{
		"id":    uuid.NewString(),
		"model": req.Model,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message": map[string]string{
				"role":    "assistant",
				"content": "Respuesta simulada a: " + last,
			},
		}},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
