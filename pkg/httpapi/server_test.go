package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdescriptor/pkg/descriptor"
	"github.com/goliatone/go-formdescriptor/pkg/formgen"
	"github.com/goliatone/go-formdescriptor/pkg/httpapi"
	"github.com/goliatone/go-formdescriptor/pkg/introspect"
	"github.com/goliatone/go-formdescriptor/pkg/testsupport"
)

type contact struct {
	ID    int    `json:"id"`
	Name  string `json:"name" form:"required"`
	Email string `json:"email" form:"email"`
}

func newServer(t *testing.T) http.Handler {
	t.Helper()
	registry := introspect.NewRegistry()
	registry.MustRegister("Contact", contact{})
	models := introspect.New(introspect.WithRegistry(registry))
	gen := formgen.New(testsupport.EchoResolver)
	return httpapi.New(models, gen).Routes()
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeForm(t *testing.T, rec *httptest.ResponseRecorder) descriptor.FormDescriptor {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var form descriptor.FormDescriptor
	if err := json.Unmarshal(rec.Body.Bytes(), &form); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return form
}

func TestListModels(t *testing.T) {
	rec := serve(t, newServer(t), httptest.NewRequest(http.MethodGet, "/models", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"Contact"}, body["models"]); diff != "" {
		t.Fatalf("models mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateForm(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/forms/Contact?endpoint=/api/contacts&locale=fr", nil)
	form := decodeForm(t, serve(t, newServer(t), req))

	if diff := cmp.Diff([]string{"id", "name", "email"}, form.ControlNames()); diff != "" {
		t.Fatalf("controls mismatch (-want +got):\n%s", diff)
	}
	if form.Endpoint != "/api/contacts" || form.Method != "POST" {
		t.Fatalf("unexpected endpoint/method %q %q", form.Endpoint, form.Method)
	}
	name, _ := form.Control("name")
	if name.Label != "[fr] httpapi_test.name.label" {
		t.Fatalf("unexpected label %q", name.Label)
	}
	if name.Value != nil {
		t.Fatalf("expected no value on a create form, got %+v", name.Value)
	}
	if form.SuccessMessage != "[fr] httpapi_test.contact.success.create.message" {
		t.Fatalf("unexpected success message %q", form.SuccessMessage)
	}
}

func TestCreateFormUsesAcceptLanguage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/forms/Contact?endpoint=/api/contacts", nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.5")
	form := decodeForm(t, serve(t, newServer(t), req))

	if !strings.HasPrefix(form.SubmitLabel, "[de-DE]") {
		t.Fatalf("expected german submit label, got %q", form.SubmitLabel)
	}
}

func TestEditForm(t *testing.T) {
	body := bytes.NewBufferString(`{"id": 7, "name": "Ada", "email": "ada@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/forms/Contact?endpoint=/api/contacts/7&method=put", body)
	form := decodeForm(t, serve(t, newServer(t), req))

	if form.Method != "PUT" {
		t.Fatalf("expected PUT, got %q", form.Method)
	}
	name, _ := form.Control("name")
	if name.Value == nil || name.Value.Data != "Ada" {
		t.Fatalf("expected populated name, got %+v", name.Value)
	}
	id, _ := form.Control("id")
	if id.Value == nil || id.Value.Data != float64(7) {
		t.Fatalf("expected numeric id, got %+v", id.Value)
	}
	if form.SuccessMessage != "[en] httpapi_test.contact.success.update.message" {
		t.Fatalf("unexpected success message %q", form.SuccessMessage)
	}
}

func TestFormErrors(t *testing.T) {
	cases := []struct {
		name   string
		req    *http.Request
		status int
		code   string
	}{
		{
			name:   "unknown model",
			req:    httptest.NewRequest(http.MethodGet, "/forms/Missing?endpoint=/x", nil),
			status: http.StatusNotFound,
			code:   "UNKNOWN_MODEL",
		},
		{
			name:   "missing endpoint",
			req:    httptest.NewRequest(http.MethodGet, "/forms/Contact", nil),
			status: http.StatusBadRequest,
			code:   "ENDPOINT_REQUIRED",
		},
		{
			name:   "invalid body",
			req:    httptest.NewRequest(http.MethodPost, "/forms/Contact?endpoint=/x", strings.NewReader("{")),
			status: http.StatusBadRequest,
			code:   "INVALID_BODY",
		},
		{
			name:   "non-object body",
			req:    httptest.NewRequest(http.MethodPost, "/forms/Contact?endpoint=/x", strings.NewReader("null")),
			status: http.StatusBadRequest,
			code:   "INVALID_BODY",
		},
	}

	h := newServer(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, h, tc.req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["code"] != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, body["code"])
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	rec := serve(t, newServer(t), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}
