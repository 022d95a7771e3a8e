package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/courtside/matchday/internal/usecase"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantReason string
	}{
		{fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), http.StatusBadRequest, "invalidInput"},
		{fmt.Errorf("%w: session s1", usecase.ErrNotFound), http.StatusNotFound, "notFound"},
		{fmt.Errorf("%w: edit in flight", usecase.ErrConflict), http.StatusConflict, "conflict"},
		{fmt.Errorf("%w: backend down", usecase.ErrDependencyUnavailable), http.StatusServiceUnavailable, "dependencyUnavailable"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internalError"},
	}

	for _, tc := range cases {
		mapped := mapError(tc.err)
		if mapped.HTTPStatus != tc.wantStatus || mapped.Reason != tc.wantReason {
			t.Fatalf("mapError(%v) = %+v, want status=%d reason=%s", tc.err, mapped, tc.wantStatus, tc.wantReason)
		}
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: session s1", usecase.ErrNotFound))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.APIVersion != googleAPIVersion {
		t.Fatalf("apiVersion = %q", envelope.APIVersion)
	}
	if envelope.Error == nil || envelope.Error.Status != "NOT_FOUND" {
		t.Fatalf("error body = %+v", envelope.Error)
	}
	if len(envelope.Error.Errors) != 1 || envelope.Error.Errors[0].Domain != errorDomain {
		t.Fatalf("error items = %+v", envelope.Error.Errors)
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error != nil {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
}
