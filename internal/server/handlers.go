package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nordtime/aiguard/internal/anonymize"
	"github.com/nordtime/aiguard/internal/budget"
	"github.com/nordtime/aiguard/internal/events"
	"github.com/nordtime/aiguard/internal/redact"
)

// redactRequest carries extracted document text plus the caller's current
// roster. Byte-level PDF extraction happens upstream; this service only sees
// its output.
type redactRequest struct {
	CompanyID  string            `json:"companyId"`
	Text       string            `json:"text"`
	PageCount  int               `json:"pageCount"`
	KnownNames redact.KnownNames `json:"knownNames"`
}

type anonymizeResponse struct {
	AnonymizedData *anonymize.InsightDataPackage `json:"anonymizedData"`
	Map            *anonymize.Map                `json:"map"`
}

type deanonymizeRequest struct {
	Insights []anonymize.InsightRecord `json:"insights"`
	Map      *anonymize.Map            `json:"map"`
}

type usageRequest struct {
	CompanyID    string `json:"companyId"`
	Endpoint     string `json:"endpoint"`
	Model        string `json:"model"`
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
}

func (s *Server) handleRedact(w http.ResponseWriter, r *http.Request) {
	var req redactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result := s.pipeline.RedactText(req.Text, req.PageCount, req.KnownNames)

	if s.hub != nil {
		s.hub.Broadcast(events.Event{
			Type:      events.EventTypeRedaction,
			RequestID: getRequestID(r.Context()),
			Data: events.RedactionEvent{
				CompanyID:         req.CompanyID,
				ChunksTotal:       result.Stats.ChunksTotal,
				ChunksKept:        result.Stats.ChunksKept,
				RedactionsApplied: result.Stats.RedactionsApplied,
				IsScannedPDF:      result.IsScannedPDF,
			},
		})
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	var pkg anonymize.InsightDataPackage
	if err := json.NewDecoder(r.Body).Decode(&pkg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	anonymized, m := anonymize.Anonymize(&pkg)

	if s.hub != nil {
		s.hub.Broadcast(events.Event{
			Type:      events.EventTypeAnonymization,
			RequestID: getRequestID(r.Context()),
			Data: events.AnonymizationEvent{
				CompanyID:     pkg.Company.ID,
				EmployeeCount: len(m.Employees),
				ProjectCount:  len(m.Projects),
			},
		})
	}

	writeJSON(w, http.StatusOK, anonymizeResponse{AnonymizedData: anonymized, Map: m})
}

func (s *Server) handleDeanonymize(w http.ResponseWriter, r *http.Request) {
	var req deanonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Map == nil {
		writeError(w, http.StatusBadRequest, "map is required")
		return
	}

	restored := anonymize.DeanonymizeInsights(req.Insights, req.Map)
	writeJSON(w, http.StatusOK, map[string]interface{}{"insights": restored})
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	if s.gate == nil {
		writeError(w, http.StatusServiceUnavailable, "no usage store configured")
		return
	}

	companyID := mux.Vars(r)["companyID"]
	status, err := s.gate.CheckBudget(r.Context(), companyID)
	if err != nil {
		s.logger.Error("Budget check failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "budget check failed")
		return
	}

	if !status.Allowed && s.hub != nil {
		s.hub.Broadcast(events.Event{
			Type:      events.EventTypeBudgetBlocked,
			RequestID: getRequestID(r.Context()),
			Data: events.BudgetBlockedEvent{
				CompanyID:         companyID,
				DailyUsedCents:    status.DailyUsedCents,
				MonthlyUsedCents:  status.MonthlyUsedCents,
				DailyLimitCents:   status.DailyLimitCents,
				MonthlyLimitCents: status.MonthlyLimitCents,
			},
		})
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	if s.gate == nil {
		writeError(w, http.StatusServiceUnavailable, "no usage store configured")
		return
	}

	var req usageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CompanyID == "" || req.Model == "" {
		writeError(w, http.StatusBadRequest, "companyId and model are required")
		return
	}

	cost, err := s.gate.TrackUsage(r.Context(), req.CompanyID, req.Endpoint, req.Model, req.InputTokens, req.OutputTokens)
	if err != nil {
		s.logger.Error("Usage tracking failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "usage tracking failed")
		return
	}

	if s.hub != nil {
		s.hub.Broadcast(events.Event{
			Type:      events.EventTypeUsageTracked,
			RequestID: getRequestID(r.Context()),
			Data: events.UsageTrackedEvent{
				CompanyID:    req.CompanyID,
				Endpoint:     req.Endpoint,
				Model:        req.Model,
				InputTokens:  req.InputTokens,
				OutputTokens: req.OutputTokens,
				CostCents:    cost,
			},
		})
	}

	writeJSON(w, http.StatusOK, map[string]float64{"costCents": cost})
}

func (s *Server) handleRecentUsage(w http.ResponseWriter, r *http.Request) {
	if s.gate == nil {
		writeError(w, http.StatusServiceUnavailable, "no usage store configured")
		return
	}

	companyID := mux.Vars(r)["companyID"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := s.gate.RecentUsage(r.Context(), companyID, limit)
	if err != nil {
		s.logger.Error("Usage listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "usage listing failed")
		return
	}
	if records == nil {
		records = []budget.UsageRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
