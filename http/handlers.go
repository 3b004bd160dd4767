package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"sepsisapi/ml"
	"sepsisapi/prediction"
)

const welcomeMessage = "Welcome To The Sepsis Prediction API"

// Predictor produces a prediction for one patient record.
type Predictor interface {
	Predict(ctx context.Context, features ml.PatientFeatures) (*prediction.Result, error)
}

// Handlers serves the API routes. The predictor and load result are fixed at
// construction and shared read-only by every request.
type Handlers struct {
	predictor Predictor
	load      ml.LoadResult
}

// NewHandlers creates the route handlers around a predictor and the startup
// load result.
func NewHandlers(predictor Predictor, load ml.LoadResult) *Handlers {
	return &Handlers{predictor: predictor, load: load}
}

// Register adds the API routes to mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /predict_sepsis", h.handlePredictSepsis)
}

func (h *Handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok", "artifacts": "loaded"}
	if !h.load.OK() {
		body["status"] = "degraded"
		body["artifacts"] = "failed"
		if reason := h.load.Reason(); reason != "" {
			body["reason"] = string(reason)
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handlers) handlePredictSepsis(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "There was an error parsing the body"})
		return
	}
	features, errs := bindFeatures(r)
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string][]ValidationError{"detail": errs})
		return
	}

	result, err := h.predictor.Predict(r.Context(), features)
	if err != nil {
		// unfitted artifacts keep the 200 envelope; only the body differs
		if eris.Is(err, prediction.ErrModelNotFitted) {
			writeJSON(w, http.StatusOK, map[string]string{"error": prediction.NotFittedMessage})
			return
		}
		zap.L().Error("prediction failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
}
