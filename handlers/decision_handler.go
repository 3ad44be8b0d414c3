package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sagarmiglani/accessgate/gate"
	"github.com/sagarmiglani/accessgate/middleware"
	"github.com/sagarmiglani/accessgate/services/access"
	"github.com/sagarmiglani/accessgate/utils"
)

// DecisionRequest represents a request for an authorization decision
type DecisionRequest struct {
	Context   string `json:"context,omitempty" validate:"omitempty,oneof=application provider"`
	Path      string `json:"path" validate:"required"`
	Operation string `json:"operation" validate:"required,oneof=read create update delete execute order-children"`
	ValueName string `json:"value_name,omitempty"`
}

// DecisionResponse represents an authorization decision
type DecisionResponse struct {
	Context   string `json:"context"`
	Path      string `json:"path"`
	Operation string `json:"operation"`
	ValueName string `json:"value_name,omitempty"`
	Result    string `json:"result"`
}

// QueryRequest represents a request to run a query through the transformer
// chain
type QueryRequest struct {
	Context  string `json:"context,omitempty" validate:"omitempty,oneof=application provider"`
	Query    string `json:"query" validate:"required"`
	Language string `json:"language" validate:"required"`
}

// QueryResponse represents a transformed query
type QueryResponse struct {
	Context     string `json:"context"`
	Language    string `json:"language"`
	Query       string `json:"query"`
	Transformed string `json:"transformed"`
}

// DecisionHandler handles authorization decision HTTP requests
type DecisionHandler struct {
	service        *access.Service
	defaultContext string
	logger         *zap.Logger
}

// NewDecisionHandler creates a new DecisionHandler
func NewDecisionHandler(service *access.Service, defaultContext string, logger *zap.Logger) *DecisionHandler {
	return &DecisionHandler{
		service:        service,
		defaultContext: defaultContext,
		logger:         logger,
	}
}

// HandleDecision handles POST /api/v1/access/decision
func (h *DecisionHandler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	gateContext := req.Context
	if gateContext == "" {
		gateContext = h.defaultContext
	}

	verdict, err := h.service.Decide(ctx, gateContext, gate.Request{
		ResourcePath: req.Path,
		Operation:    gate.Operation(req.Operation),
		ValueName:    req.ValueName,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Debug("decision served",
		zap.String("request_id", requestID),
		zap.String("context", gateContext),
		zap.String("path", req.Path),
		zap.String("operation", req.Operation),
		zap.String("result", string(verdict)))

	_ = utils.WriteOK(w, DecisionResponse{
		Context:   gateContext,
		Path:      req.Path,
		Operation: req.Operation,
		ValueName: req.ValueName,
		Result:    string(verdict),
	})
}

// HandleQuery handles POST /api/v1/access/query
func (h *DecisionHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	gateContext := req.Context
	if gateContext == "" {
		gateContext = h.defaultContext
	}

	transformed, err := h.service.TransformQuery(ctx, gateContext, req.Query, req.Language)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, QueryResponse{
		Context:     gateContext,
		Language:    req.Language,
		Query:       req.Query,
		Transformed: transformed,
	})
}

// HandleRestrictions handles GET /api/v1/access/restrictions
func (h *DecisionHandler) HandleRestrictions(w http.ResponseWriter, r *http.Request) {
	gateContext := r.URL.Query().Get("context")
	if gateContext == "" {
		gateContext = h.defaultContext
	}

	report, err := h.service.Restrictions(gateContext)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, report)
}

// HandleValues handles GET /api/v1/access/values
func (h *DecisionHandler) HandleValues(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		_ = utils.WriteBadRequest(w, "path query parameter is required", nil)
		return
	}

	gateContext := r.URL.Query().Get("context")
	if gateContext == "" {
		gateContext = h.defaultContext
	}

	report, err := h.service.AllValues(gateContext, path)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, report)
}
