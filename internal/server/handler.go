package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/duustin25/vigenere-cipher-system/pkg/cipher"
	"github.com/duustin25/vigenere-cipher-system/pkg/config"
	"github.com/duustin25/vigenere-cipher-system/pkg/domain"
	"github.com/duustin25/vigenere-cipher-system/pkg/telemetry"
)

const maxBodyBytes = 1 << 20

type computeRequest struct {
	Text string `json:"text"`
	Key  string `json:"key"`
	Mode string `json:"mode"`
	Mod  int    `json:"mod"`
}

type traceStepPayload struct {
	Index     int    `json:"index"`
	TextChar  string `json:"text_char"`
	TextValue int    `json:"text_value"`
	KeyChar   string `json:"key_char"`
	KeyValue  int    `json:"key_value"`
	OutValue  int    `json:"out_value"`
	Formula   string `json:"formula"`
	OutChar   string `json:"out_char"`
}

type computeResponse struct {
	Output string             `json:"output"`
	Mode   string             `json:"mode"`
	Mod    int                `json:"mod"`
	Trace  []traceStepPayload `json:"trace,omitempty"`
}

type alphabetPayload struct {
	Mod        int    `json:"mod"`
	Label      string `json:"label"`
	Characters string `json:"characters"`
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, r, http.StatusMethodNotAllowed, domain.ErrorResponse{
			Code:    domain.CodeBadRequest,
			Message: "method not allowed: use POST",
		})
		return
	}

	var req computeRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, domain.ErrorResponse{
			Code:    domain.CodeBadRequest,
			Message: "invalid JSON body: " + err.Error(),
		})
		return
	}

	cfg := s.config().Cipher

	mode, err := cipher.ParseMode(req.Mode)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, domain.ErrorResponse{
			Code:    domain.CodeInvalidMode,
			Message: err.Error(),
			Field:   "mode",
		})
		return
	}

	modulus := req.Mod
	if modulus == 0 {
		modulus = cfg.DefaultModulus
	}
	if modulus < config.MinModulus || modulus > config.MaxModulus {
		s.writeError(w, r, http.StatusUnprocessableEntity, domain.ErrorResponse{
			Code:    domain.CodeModulusOutOfRange,
			Message: fmt.Sprintf("mod must be between %d and %d", config.MinModulus, config.MaxModulus),
			Field:   "mod",
		})
		return
	}

	if resp, ok := s.checkLengths(req, mode, cfg); !ok {
		s.writeError(w, r, http.StatusUnprocessableEntity, resp)
		return
	}

	// The engine's alphabets are uppercase-only; normalization is this
	// adapter's responsibility.
	engineReq := cipher.Request{
		Text:    strings.ToUpper(req.Text),
		Key:     strings.ToUpper(req.Key),
		Mode:    mode,
		Modulus: modulus,
	}

	start := time.Now()
	result, err := cipher.Compute(engineReq)
	duration := time.Since(start)

	if err != nil {
		var verr *cipher.ValidationError
		if errors.As(err, &verr) {
			telemetry.RecordValidationFailure(r.Context(), string(verr.Kind))
		}
		s.metrics.ObserveComputation(mode.String(), modulus, "rejected")
		s.writeError(w, r, http.StatusUnprocessableEntity, domain.ErrorResponseFor(err))
		return
	}

	s.metrics.ObserveComputation(mode.String(), modulus, "success")
	telemetry.RecordComputation(r.Context(), telemetry.Computation{
		Mode:       mode.String(),
		Modulus:    modulus,
		Outcome:    "success",
		TextLength: len(engineReq.Text),
		Duration:   duration,
	})

	resp := computeResponse{
		Output: result.Output,
		Mode:   mode.String(),
		Mod:    modulus,
	}
	if cfg.IncludeTrace {
		resp.Trace = traceToPayload(result.Trace)
	}

	writeJSON(w, http.StatusOK, resp)
}

// checkLengths enforces the configured request size limits before the
// engine runs.
func (s *Server) checkLengths(req computeRequest, mode cipher.Mode, cfg config.CipherConfig) (domain.ErrorResponse, bool) {
	textField := "plaintext"
	if mode == cipher.ModeDecode {
		textField = "ciphertext"
	}

	if len(req.Text) > cfg.MaxTextLength {
		return domain.ErrorResponse{
			Code:    domain.CodeTextTooLong,
			Message: domain.ErrTextTooLong.Error(),
			Field:   textField,
		}, false
	}

	if len(req.Key) > cfg.MaxKeyLength {
		return domain.ErrorResponse{
			Code:    domain.CodeKeyTooLong,
			Message: domain.ErrKeyTooLong.Error(),
			Field:   "key",
		}, false
	}

	return domain.ErrorResponse{}, true
}

func (s *Server) handleAlphabets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, http.StatusMethodNotAllowed, domain.ErrorResponse{
			Code:    domain.CodeBadRequest,
			Message: "method not allowed: use GET",
		})
		return
	}

	moduli := cipher.SupportedModuli()
	payload := make([]alphabetPayload, 0, len(moduli))
	for _, m := range moduli {
		a, _ := cipher.AlphabetFor(m)
		payload = append(payload, alphabetPayload{
			Mod:        m,
			Label:      a.Label(),
			Characters: a.String(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"alphabets": payload})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, resp domain.ErrorResponse) {
	if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
		resp.TraceID = sc.TraceID().String()
	}
	writeJSON(w, status, resp)
}

func traceToPayload(steps []cipher.TraceStep) []traceStepPayload {
	payload := make([]traceStepPayload, len(steps))
	for i, step := range steps {
		payload[i] = traceStepPayload{
			Index:     step.Index,
			TextChar:  string(step.TextChar),
			TextValue: step.TextValue,
			KeyChar:   string(step.KeyChar),
			KeyValue:  step.KeyValue,
			OutValue:  step.OutValue,
			Formula:   step.Formula,
			OutChar:   string(step.OutChar),
		}
	}
	return payload
}
