package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "gite/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", apperrors.InvalidInput("missing phone"), http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"not found", apperrors.NotFoundWithID("Reservation", "x"), http.StatusNotFound, apperrors.CodeNotFound},
		{"validation", apperrors.Validation("bad", nil), http.StatusUnprocessableEntity, apperrors.CodeValidation},
		{"plain error", errors.New("kaboom"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			if err := WriteError(w, tt.err); err != nil {
				t.Fatalf("WriteError returned %v", err)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestWriteCreated(t *testing.T) {
	w := httptest.NewRecorder()
	if err := WriteCreated(w, map[string]string{"status": "pending"}); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"data":{"status":"pending"}`) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	var v map[string]any
	err := DecodeJSON(r, &v)
	if !apperrors.IsAppError(err) || apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}
