package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"netprofile-agent/internal/application/usecases"
	"netprofile-agent/internal/domain/entities"
	"netprofile-agent/internal/domain/errors"
	"netprofile-agent/internal/domain/interfaces"
)

// TransactionRunner is the engine surface the API needs
type TransactionRunner interface {
	Apply(ctx context.Context, iface string, cfg entities.NetworkConfig) (*entities.TransactionResult, error)
	Undo(ctx context.Context, iface string) (*entities.TransactionResult, error)
}

// Server exposes the transaction engine over local HTTP. It is meant to sit
// behind the host's loopback only; it carries no authentication of its own.
type Server struct {
	engine     TransactionRunner
	inventory  interfaces.InterfaceInventory
	profiles   interfaces.ProfileStore
	translator interfaces.Translator
	logger     *logrus.Logger
}

// NewServer creates a new API Server
func NewServer(
	engine TransactionRunner,
	inventory interfaces.InterfaceInventory,
	profiles interfaces.ProfileStore,
	translator interfaces.Translator,
	logger *logrus.Logger,
) *Server {
	return &Server{
		engine:     engine,
		inventory:  inventory,
		profiles:   profiles,
		translator: translator,
		logger:     logger,
	}
}

// Routes registers the API handlers on a mux
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/apply", s.handleApply)
	mux.HandleFunc("/v1/undo", s.handleUndo)
	mux.HandleFunc("/v1/interfaces", s.handleInterfaces)
	mux.HandleFunc("/v1/profiles", s.handleProfiles)
}

// applyRequest selects either a stored profile or an inline configuration
type applyRequest struct {
	Interface string                  `json:"interface"`
	Profile   string                  `json:"profile,omitempty"`
	Config    *entities.NetworkConfig `json:"config,omitempty"`
}

type undoRequest struct {
	Interface string `json:"interface"`
}

// transactionResponse is the wire shape of a transaction outcome
type transactionResponse struct {
	TransactionID string                  `json:"transaction_id"`
	Operation     string                  `json:"operation"`
	Interface     string                  `json:"interface"`
	Success       bool                    `json:"success"`
	Partial       bool                    `json:"partial"`
	TimedOut      bool                    `json:"timed_out"`
	Message       string                  `json:"message"`
	MessageKey    string                  `json:"message_key"`
	Detail        string                  `json:"detail,omitempty"`
	Warnings      []string                `json:"warnings,omitempty"`
	AppliedConfig *entities.NetworkConfig `json:"applied_config,omitempty"`
	PriorConfig   *entities.NetworkConfig `json:"prior_config,omitempty"`
	DurationMS    int64                   `json:"duration_ms"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest,
			errors.NewValidationError("invalid_config", "request body is not valid JSON", err))
		return
	}

	cfg, err := s.resolveConfig(r.Context(), req)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	result, err := s.engine.Apply(r.Context(), req.Interface, cfg)
	s.writeTransaction(w, result, err)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req undoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest,
			errors.NewValidationError("invalid_config", "request body is not valid JSON", err))
		return
	}

	result, err := s.engine.Undo(r.Context(), req.Interface)
	s.writeTransaction(w, result, err)
}

func (s *Server) handleInterfaces(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	infos, err := s.inventory.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		profiles, err := s.profiles.List(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.writeJSON(w, http.StatusOK, profiles)

	case http.MethodPut:
		var profile entities.Profile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			s.writeError(w, http.StatusBadRequest,
				errors.NewValidationError("invalid_config", "request body is not valid JSON", err))
			return
		}
		if err := s.profiles.Save(r.Context(), profile); err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
		s.writeJSON(w, http.StatusOK, profile)

	case http.MethodDelete:
		name := r.URL.Query().Get("name")
		if name == "" {
			s.writeError(w, http.StatusBadRequest,
				errors.NewValidationError("profile_name_empty", "name query parameter required", nil))
			return
		}
		if err := s.profiles.Delete(r.Context(), name); err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// resolveConfig picks the profile or inline config from the request
func (s *Server) resolveConfig(ctx context.Context, req applyRequest) (entities.NetworkConfig, error) {
	if req.Profile != "" {
		profile, err := s.profiles.Get(ctx, req.Profile)
		if err != nil {
			return entities.NetworkConfig{}, err
		}
		if profile == nil {
			return entities.NetworkConfig{}, errors.NewValidationError("profile_not_found",
				"profile does not exist: "+req.Profile, nil)
		}
		return profile.Config, nil
	}
	if req.Config == nil {
		return entities.NetworkConfig{}, errors.NewValidationError("invalid_config",
			"either profile or config must be provided", nil)
	}
	return *req.Config, nil
}

func (s *Server) writeTransaction(w http.ResponseWriter, result *entities.TransactionResult, err error) {
	if result == nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	resp := transactionResponse{
		TransactionID: result.TransactionID,
		Operation:     string(result.Operation),
		Interface:     result.Interface,
		Success:       result.Success,
		Partial:       result.Partial,
		TimedOut:      result.TimedOut,
		Message:       s.translator.Translate(result.MessageKey),
		MessageKey:    result.MessageKey,
		Detail:        result.Detail,
		Warnings:      result.Warnings,
		AppliedConfig: result.AppliedConfig,
		PriorConfig:   result.PriorConfig,
		DurationMS:    result.Duration.Milliseconds(),
	}

	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	key := errors.KeyOf(err)
	s.writeJSON(w, status, errorResponse{
		Error:   err.Error(),
		Key:     key,
		Message: s.translator.Translate(key),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode API response")
	}
}

// statusFor maps domain error types to HTTP status codes
func statusFor(err error) int {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypePermission:
		return http.StatusForbidden
	case errors.ErrorTypeNoUndo:
		return http.StatusConflict
	case errors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

var _ TransactionRunner = (*usecases.TransactionEngine)(nil)
