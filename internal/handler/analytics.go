package handler

import (
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dan9191/bank-insights/internal/analytics"
	"github.com/Dan9191/bank-insights/internal/models"
	"github.com/Dan9191/bank-insights/internal/statement"
)

// Insights handles GET /api/analytics/insights
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	balance, ok := floatParam(w, r, "balance", 0)
	if !ok {
		return
	}

	insights, err := h.svc.Insights(r.Context(), balance)
	if err != nil {
		h.fail(w, "Insights", err)
		return
	}
	if insights == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "success",
			"message":  "No transactions found",
			"insights": map[string]any{},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "insights": insights})
}

// Spending handles GET /api/analytics/spending
func (h *Handler) Spending(w http.ResponseWriter, r *http.Request) {
	days, ok := intParam(w, r, "days", analytics.DefaultTrendDays)
	if !ok {
		return
	}

	summary, err := h.svc.SpendingTrends(r.Context(), days)
	if err != nil {
		h.fail(w, "Spending analysis", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "analysis": summary})
}

// Anomalies handles GET /api/analytics/anomalies
func (h *Handler) Anomalies(w http.ResponseWriter, r *http.Request) {
	threshold, ok := floatParam(w, r, "threshold", analytics.DefaultThresholdStd)
	if !ok {
		return
	}

	anomalies, err := h.svc.Anomalies(r.Context(), threshold)
	if err != nil {
		h.fail(w, "Anomaly detection", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"anomalies": anomalies,
		"count":     len(anomalies),
	})
}

// Forecast handles GET /api/analytics/forecast
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	days, ok := intParam(w, r, "days", analytics.DefaultForecastDays)
	if !ok {
		return
	}
	if days < 1 || days > analytics.MaxForecastDays {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("days must be between 1 and %d", analytics.MaxForecastDays))
		return
	}
	balance, ok := floatParam(w, r, "balance", 0)
	if !ok {
		return
	}

	forecast, err := h.svc.Forecast(r.Context(), days, balance)
	if err != nil {
		h.fail(w, "Forecast", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "forecast": forecast})
}

// OverdraftRisk handles GET /api/analytics/overdraft-risk
func (h *Handler) OverdraftRisk(w http.ResponseWriter, r *http.Request) {
	balance, ok := floatParam(w, r, "balance", 0)
	if !ok {
		return
	}

	risk, err := h.svc.OverdraftRisk(r.Context(), balance)
	if err != nil {
		h.fail(w, "Overdraft risk", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "risk_assessment": risk})
}

type categorizeRequest struct {
	Transactions []models.TransactionInput `json:"transactions"`
}

// Categorize handles POST /api/analytics/categorize with a JSON batch or a CAMT.053 statement
func (h *Handler) Categorize(w http.ResponseWriter, r *http.Request) {
	var inputs []models.TransactionInput
	if isXML(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		txns, err := statement.ParseCAMT053(r.Body)
		if err != nil {
			if !errors.Is(err, statement.ErrNotCAMT) {
				h.log.Warnf("Rejected statement upload: %v", err)
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		for _, t := range txns {
			inputs = append(inputs, models.InputFromTransaction(t))
		}
	} else {
		var req categorizeRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}
		inputs = req.Transactions
	}

	categorized, err := h.svc.Categorize(inputs)
	if err != nil {
		h.fail(w, "Categorization", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "categorized_transactions": categorized})
}

type segmentsRequest struct {
	Customers map[string][]models.Transaction `json:"customers"`
}

// Segments handles POST /api/analytics/segments
func (h *Handler) Segments(w http.ResponseWriter, r *http.Request) {
	var req segmentsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "segments": h.svc.Segments(req.Customers)})
}

func isXML(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return strings.HasSuffix(mediaType, "/xml") || strings.HasSuffix(mediaType, "+xml")
}

func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %q", name, raw))
		return 0, false
	}
	return v, true
}

func floatParam(w http.ResponseWriter, r *http.Request, name string, def float64) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %q", name, raw))
		return 0, false
	}
	return v, true
}
