package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sagarmiglani/accessgate/middleware"
	"github.com/sagarmiglani/accessgate/models"
	"github.com/sagarmiglani/accessgate/services/access"
	"github.com/sagarmiglani/accessgate/utils"
)

// CreateRegistrationRequest represents a request to register a gate
type CreateRegistrationRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=128"`
	GateType        string          `json:"gate_type" validate:"required"`
	Config          json.RawMessage `json:"config" validate:"required"`
	Context         string          `json:"context" validate:"required,oneof=application provider"`
	PathPattern     string          `json:"path_pattern,omitempty"`
	Operations      []string        `json:"operations,omitempty" validate:"omitempty,dive,oneof=read create update delete execute order-children"`
	FinalOperations []string        `json:"final_operations,omitempty" validate:"omitempty,dive,oneof=read create update delete execute order-children"`
	Ranking         int             `json:"ranking"`
	Enabled         *bool           `json:"enabled,omitempty"`
}

// UpdateRegistrationRequest represents a request to update a gate
// registration. Omitted fields keep their current value.
type UpdateRegistrationRequest struct {
	GateType        *string          `json:"gate_type,omitempty"`
	Config          *json.RawMessage `json:"config,omitempty"`
	Context         *string          `json:"context,omitempty" validate:"omitempty,oneof=application provider"`
	PathPattern     *string          `json:"path_pattern,omitempty"`
	Operations      *[]string        `json:"operations,omitempty" validate:"omitempty,dive,oneof=read create update delete execute order-children"`
	FinalOperations *[]string        `json:"final_operations,omitempty" validate:"omitempty,dive,oneof=read create update delete execute order-children"`
	Ranking         *int             `json:"ranking,omitempty"`
	Enabled         *bool            `json:"enabled,omitempty"`
}

// RegistrationResponse represents a gate registration in API responses
type RegistrationResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	GateType        string          `json:"gate_type"`
	Config          json.RawMessage `json:"config"`
	Context         string          `json:"context"`
	PathPattern     string          `json:"path_pattern,omitempty"`
	Operations      []string        `json:"operations,omitempty"`
	FinalOperations []string        `json:"final_operations,omitempty"`
	Ranking         int             `json:"ranking"`
	Enabled         bool            `json:"enabled"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

// RegistrationHandler handles gate registration HTTP requests
type RegistrationHandler struct {
	service *access.Service
	logger  *zap.Logger
}

// NewRegistrationHandler creates a new RegistrationHandler
func NewRegistrationHandler(service *access.Service, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
		logger:  logger,
	}
}

// HandleListRegistrations handles GET /api/v1/registrations
func (h *RegistrationHandler) HandleListRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	regs, err := h.service.ListRegistrations(ctx)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	responses := make([]RegistrationResponse, len(regs))
	for i, reg := range regs {
		responses[i] = registrationToResponse(reg)
	}

	h.logger.Debug("listed gate registrations",
		zap.String("request_id", requestID),
		zap.Int("count", len(responses)))

	_ = utils.WriteOK(w, responses)
}

// HandleGetRegistration handles GET /api/v1/registrations/{id}
func (h *RegistrationHandler) HandleGetRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid registration ID format", nil)
		return
	}

	reg, err := h.service.GetRegistration(ctx, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, registrationToResponse(reg))
}

// HandleCreateRegistration handles POST /api/v1/registrations
func (h *RegistrationHandler) HandleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req CreateRegistrationRequest
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

	reg := models.NewGateRegistration(req.Name, req.GateType, req.Config, req.Context, req.Ranking)
	reg.PathPattern = req.PathPattern
	reg.Operations = req.Operations
	reg.FinalOperations = req.FinalOperations
	if req.Enabled != nil {
		reg.Enabled = *req.Enabled
	}

	created, err := h.service.CreateRegistration(ctx, reg)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("gate registration created",
		zap.String("request_id", requestID),
		zap.String("id", created.ID.String()),
		zap.String("name", created.Name))

	_ = utils.WriteCreated(w, registrationToResponse(created))
}

// HandleUpdateRegistration handles PATCH /api/v1/registrations/{id}
func (h *RegistrationHandler) HandleUpdateRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid registration ID format", nil)
		return
	}

	var req UpdateRegistrationRequest
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

	reg, err := h.service.GetRegistration(ctx, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if req.GateType != nil {
		reg.GateType = *req.GateType
	}
	if req.Config != nil {
		reg.Config = *req.Config
	}
	if req.Context != nil {
		reg.Context = *req.Context
	}
	if req.PathPattern != nil {
		reg.PathPattern = *req.PathPattern
	}
	if req.Operations != nil {
		reg.Operations = *req.Operations
	}
	if req.FinalOperations != nil {
		reg.FinalOperations = *req.FinalOperations
	}
	if req.Ranking != nil {
		reg.Ranking = *req.Ranking
	}
	if req.Enabled != nil {
		reg.Enabled = *req.Enabled
	}

	updated, err := h.service.UpdateRegistration(ctx, reg)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("gate registration updated",
		zap.String("request_id", requestID),
		zap.String("id", updated.ID.String()))

	_ = utils.WriteOK(w, registrationToResponse(updated))
}

// HandleDeleteRegistration handles DELETE /api/v1/registrations/{id}
func (h *RegistrationHandler) HandleDeleteRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid registration ID format", nil)
		return
	}

	if err := h.service.DeleteRegistration(ctx, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("gate registration deleted",
		zap.String("request_id", requestID),
		zap.String("id", id.String()))

	utils.WriteNoContent(w)
}

// HandleListGateTypes handles GET /api/v1/gates
func (h *RegistrationHandler) HandleListGateTypes(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, map[string][]string{"types": h.service.GateTypes()})
}

// registrationToResponse converts a GateRegistration model to a
// RegistrationResponse
func registrationToResponse(reg *models.GateRegistration) RegistrationResponse {
	return RegistrationResponse{
		ID:              reg.ID,
		Name:            reg.Name,
		GateType:        reg.GateType,
		Config:          reg.Config,
		Context:         reg.Context,
		PathPattern:     reg.PathPattern,
		Operations:      reg.Operations,
		FinalOperations: reg.FinalOperations,
		Ranking:         reg.Ranking,
		Enabled:         reg.Enabled,
		CreatedAt:       reg.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       reg.UpdatedAt.Format(time.RFC3339),
	}
}
