package documents

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/legal"); got != "/legal/api/documents" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("legal"); got != "/legal/api/documents" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/legal/", WithRoutePath("types")); got != "/legal/types" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestRegisterRoutes_RegistersHandler(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := New(WithDocuments(sampleDocs)).RegisterRoutes(mux, "/legal")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pattern != "/legal/api/documents" {
		t.Fatalf("unexpected registered pattern: %q", pattern)
	}

	req := httptest.NewRequest(http.MethodGet, pattern+"?q=affidavit&limit=1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if _, err := RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
