package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/brand-compiler/internal/brandprompt"
	"github.com/jonathan/brand-compiler/internal/compiler"
	"github.com/jonathan/brand-compiler/internal/db"
	"github.com/jonathan/brand-compiler/internal/server/middleware"
	"github.com/jonathan/brand-compiler/internal/tone"
	"github.com/jonathan/brand-compiler/internal/types"
)

const (
	defaultSprintLimit = 20
	maxSprintLimit     = 100
	healthTimeout      = 2 * time.Second
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CompileResponse is the compile result plus request metadata.
type CompileResponse struct {
	*compiler.Result
	Cached   bool   `json:"cached"`
	SprintID string `json:"sprintId,omitempty"`
}

// MixRequest names registry tone sheets or supplies sheets inline, one
// weight per sheet.
type MixRequest struct {
	ToneIDs []string               `json:"toneIds" validate:"omitempty,max=8,dive,required"`
	Sheets  []types.ToneStyleSheet `json:"sheets" validate:"omitempty,max=8"`
	Weights []float64              `json:"weights" validate:"required,min=1,max=8,dive,gte=0"`
}

// BatchRequest compiles several input sets in one streamed response.
type BatchRequest struct {
	Items []types.DiscoveryInputs `json:"items" validate:"required,min=1,max=50"`
}

// BatchItem is the per-item event of a batch stream.
type BatchItem struct {
	Index       int      `json:"index"`
	ProductName string   `json:"productName"`
	SpecHash    string   `json:"specHash"`
	InputHash   string   `json:"inputHash"`
	Cached      bool     `json:"cached"`
	Warnings    []string `json:"warnings"`
}

// CopyResponse carries generated copy for a compiled spec.
type CopyResponse struct {
	SpecHash string            `json:"specHash"`
	Assets   types.BrandAssets `json:"assets"`
	Model    string            `json:"model"`
	Rejected []string          `json:"rejected,omitempty"`
	Cached   bool              `json:"cached"`
}

// BrandPromptResponse is the paste-ready prompt for a compiled spec.
type BrandPromptResponse struct {
	SpecHash string `json:"specHash"`
	Checksum string `json:"checksum"`
	Prompt   string `json:"prompt"`
}

// handleHealth reports liveness and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"status":   "ok",
		"database": "disabled",
		"copy":     "disabled",
	}
	if s.copier != nil {
		body["copy"] = "enabled"
	}

	status := http.StatusOK
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			s.logger.Warn("database ping failed", zap.Error(err))
			body["status"] = "degraded"
			body["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			body["database"] = "ok"
		}
	}

	s.jsonResponse(w, status, body)
}

// handleCompile compiles discovery inputs. Callers that send X-User-ID get
// the result stored as a sprint.
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var in types.DiscoveryInputs
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	result, cached, err := s.compile(in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := CompileResponse{Result: result, Cached: cached}
	if userID, ok := middleware.GetUserID(r.Context()); ok && s.store != nil {
		sprint, err := s.store.SaveSprint(r.Context(), &db.SprintInput{
			UserID:    userID,
			InputHash: result.InputHash,
			Inputs:    in,
			Spec:      result.Spec,
			SpecHash:  result.SpecHash,
			Markdown:  result.Markdown,
			Assets:    result.Assets,
		})
		if err != nil {
			s.logger.Error("failed to save sprint",
				zap.String("user_id", userID.String()),
				zap.String("input_hash", result.InputHash),
				zap.Error(err),
			)
		} else {
			resp.SprintID = sprint.ID.String()
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleCompileBatch streams one event per compiled item.
func (s *Server) handleCompileBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		s.fail(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	failed := 0
	for i, in := range req.Items {
		if r.Context().Err() != nil {
			return
		}
		result, cached, err := s.compile(in)
		if err != nil {
			failed++
			s.logger.Error("batch item failed", zap.Int("index", i), zap.Error(err))
			if werr := sse.WriteError(i, "compilation failed"); werr != nil {
				return
			}
			continue
		}
		item := BatchItem{
			Index:       i,
			ProductName: result.Spec.ProductName,
			SpecHash:    result.SpecHash,
			InputHash:   result.InputHash,
			Cached:      cached,
			Warnings:    result.Warnings,
		}
		if err := sse.WriteEvent("result", item); err != nil {
			return
		}
	}
	_ = sse.WriteComplete(len(req.Items), failed)
}

// handleMixTones blends registry or inline tone sheets.
func (s *Server) handleMixTones(w http.ResponseWriter, r *http.Request) {
	var req MixRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		s.fail(w, r, err)
		return
	}
	if len(req.ToneIDs) > 0 && len(req.Sheets) > 0 {
		s.fail(w, r, &ErrValidation{Field: "toneIds", Message: "send toneIds or sheets, not both"})
		return
	}

	sheets := req.Sheets
	if len(req.ToneIDs) > 0 {
		sheets = make([]types.ToneStyleSheet, 0, len(req.ToneIDs))
		for _, id := range req.ToneIDs {
			sheet, ok := s.reg.ToneSheet(id)
			if !ok {
				s.fail(w, r, &ErrValidation{Field: "toneIds", Message: "unknown tone sheet " + strconv.Quote(id)})
				return
			}
			sheets = append(sheets, sheet)
		}
	}

	mixed, err := tone.Mix(sheets, req.Weights)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, mixed)
}

// handleCopy generates launch copy for the compiled inputs, reusing stored
// copy for the same spec hash when a store is configured.
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	if s.copier == nil {
		s.fail(w, r, &ErrUnavailable{Feature: "copy generation"})
		return
	}

	var in types.DiscoveryInputs
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	result, _, err := s.compile(in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx := r.Context()
	if s.store != nil {
		record, err := s.store.GetCopy(ctx, result.SpecHash)
		if err != nil {
			s.logger.Warn("copy cache lookup failed", zap.String("spec_hash", result.SpecHash), zap.Error(err))
		} else if record != nil {
			s.jsonResponse(w, http.StatusOK, CopyResponse{
				SpecHash: record.SpecHash,
				Assets:   record.Assets,
				Model:    record.Model,
				Cached:   true,
			})
			return
		}
	}

	generated, err := s.copier.Generate(ctx, result.Spec, result.Style, result.Assets)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if s.store != nil {
		if err := s.store.SaveCopy(ctx, result.SpecHash, generated.Assets, generated.Model); err != nil {
			s.logger.Warn("failed to store copy", zap.String("spec_hash", result.SpecHash), zap.Error(err))
		}
	}

	s.jsonResponse(w, http.StatusOK, CopyResponse{
		SpecHash: result.SpecHash,
		Assets:   generated.Assets,
		Model:    generated.Model,
		Rejected: generated.Rejected,
	})
}

// handleBrandPrompt renders the paste-ready brand prompt.
func (s *Server) handleBrandPrompt(w http.ResponseWriter, r *http.Request) {
	var in types.DiscoveryInputs
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	result, _, err := s.compile(in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	prompt := brandprompt.Build(result.Spec, result.Assets, result.Style)
	s.jsonResponse(w, http.StatusOK, BrandPromptResponse{
		SpecHash: result.SpecHash,
		Checksum: prompt.Checksum,
		Prompt:   prompt.Text,
	})
}

// handleListSprints lists the caller's sprints, newest first.
func (s *Server) handleListSprints(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, r, &ErrUnavailable{Feature: "persistence"})
		return
	}
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		s.fail(w, r, &ErrValidation{Field: middleware.UserIDHeader, Message: "header is required"})
		return
	}

	limit := defaultSprintLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSprintLimit {
			s.fail(w, r, &ErrValidation{Field: "limit", Message: "must be between 1 and 100"})
			return
		}
		limit = n
	}

	sprints, err := s.store.ListSprints(r.Context(), userID, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if sprints == nil {
		sprints = []db.Sprint{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sprints": sprints,
		"count":   len(sprints),
	})
}

// handleGetSprint returns the caller's sprint for one input hash.
func (s *Server) handleGetSprint(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, r, &ErrUnavailable{Feature: "persistence"})
		return
	}
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		s.fail(w, r, &ErrValidation{Field: middleware.UserIDHeader, Message: "header is required"})
		return
	}

	inputHash := r.PathValue("input_hash")
	sprint, err := s.store.GetSprint(r.Context(), userID, inputHash)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if sprint == nil {
		s.fail(w, r, &ErrNotFound{Resource: "sprint", ID: inputHash})
		return
	}
	s.jsonResponse(w, http.StatusOK, sprint)
}

// compile returns the cached result for the inputs' hash or compiles and
// caches a new one. Cached results are shared and must not be mutated.
func (s *Server) compile(in types.DiscoveryInputs) (*compiler.Result, bool, error) {
	key, err := compiler.InputHash(in)
	if err != nil {
		return nil, false, err
	}
	if result, ok := s.cache.Get(key); ok {
		return result, true, nil
	}

	result, err := s.compiler.Compile(in)
	if err != nil {
		return nil, false, err
	}
	s.cache.Add(key, result)
	return result, false, nil
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return &ErrValidation{Message: "request body too large"}
		case errors.Is(err, io.EOF):
			return &ErrValidation{Message: "request body is required"}
		default:
			return &ErrValidation{Message: "invalid request body: " + err.Error()}
		}
	}
	return nil
}

// validateRequest runs struct-tag validation and reports the first failure.
func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: "failed " + fe.Tag() + " check"}
	}
	return &ErrValidation{Message: err.Error()}
}
