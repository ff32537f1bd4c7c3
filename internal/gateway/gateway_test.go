package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krugstergaming/Greenhouse/internal/testutil"
	"github.com/krugstergaming/Greenhouse/pkg/config"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(config.APIConfig{BaseURL: srv.URL}, TokenFunc(func() string { return "test-token" }), testutil.Logger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return client
}

func TestNewValidatesInputs(t *testing.T) {
	logg := testutil.Logger()
	if _, err := New(config.APIConfig{}, TokenFunc(func() string { return "" }), logg); err == nil {
		t.Fatal("expected error for missing base url")
	}
	if _, err := New(config.APIConfig{BaseURL: "http://x"}, nil, logg); err == nil {
		t.Fatal("expected error for missing token source")
	}
	if _, err := New(config.APIConfig{BaseURL: "http://x"}, TokenFunc(func() string { return "" }), nil); err == nil {
		t.Fatal("expected error for missing logger")
	}
}

func TestBearerAttachedOnAuthedCalls(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))

	if _, err := client.MyClaims(context.Background()); err != nil {
		t.Fatalf("MyClaims() error: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestNoBearerOnPublicCalls(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))

	if _, err := client.Categories(context.Background()); err != nil {
		t.Fatalf("Categories() error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("public endpoint carried Authorization %q", gotAuth)
	}
}

func TestDetailPayloadNormalized(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail": "Admin access required"}`))
	}))

	_, err := client.Users(context.Background())
	if err == nil {
		t.Fatal("expected error from 403")
	}
	typed := errors.As(err)
	if typed == nil {
		t.Fatalf("error is not coded: %v", err)
	}
	if typed.Code() != errors.CodeForbidden {
		t.Fatalf("code = %s, want %s", typed.Code(), errors.CodeForbidden)
	}
	if typed.Message() != "Admin access required" {
		t.Fatalf("message = %q, want backend detail", typed.Message())
	}
}

func TestSuccessShapedRefusalNormalized(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error": "AI service not available"}`))
	}))

	_, err := client.Recommendations(context.Background())
	if err == nil {
		t.Fatal("expected error from success-shaped refusal")
	}
	if errors.CodeOf(err) != errors.CodeBackend {
		t.Fatalf("code = %s, want %s", errors.CodeOf(err), errors.CodeBackend)
	}
	typed := errors.As(err)
	if typed.Message() != "AI service not available" {
		t.Fatalf("message = %q", typed.Message())
	}
}

func TestTransportFailureCoded(t *testing.T) {
	client, err := New(config.APIConfig{BaseURL: "http://127.0.0.1:1"}, TokenFunc(func() string { return "" }), testutil.Logger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	_, err = client.ListItems(context.Background(), true)
	if errors.CodeOf(err) != errors.CodeTransport {
		t.Fatalf("code = %s, want %s", errors.CodeOf(err), errors.CodeTransport)
	}
}

func TestListItemsQuery(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"item_id":"i-1","name":"Jars","status":"available"}]`))
	}))

	items, err := client.ListItems(context.Background(), true)
	if err != nil {
		t.Fatalf("ListItems() error: %v", err)
	}
	if gotQuery != "approved_only=true" {
		t.Fatalf("query = %q", gotQuery)
	}
	if len(items) != 1 || items[0].ItemID != "i-1" {
		t.Fatalf("items = %+v", items)
	}
}

func TestCreateItemMultipart(t *testing.T) {
	type captured struct {
		fields map[string]string
		images []string
	}
	var got captured
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart: %v", err)
		}
		got.fields = map[string]string{}
		for key, vals := range r.MultipartForm.Value {
			got.fields[key] = vals[0]
		}
		for _, fh := range r.MultipartForm.File["images"] {
			got.images = append(got.images, fh.Filename)
			f, _ := fh.Open()
			_, _ = io.ReadAll(f)
			_ = f.Close()
		}
		_, _ = w.Write([]byte(`{"message":"Item created successfully"}`))
	}))

	_, err := client.CreateItem(context.Background(), ItemCreate{
		Name:         "Glass jars",
		Quantity:     3,
		Category:     "Glass Containers",
		Location:     "Main Library",
		ExpiryDate:   "2026-09-15",
		DurationDays: 7,
		Comments:     "Clean, lids included",
		ContactInfo:  "09171234567",
		Images:       []ItemImage{{Filename: "jars.jpg", Content: []byte("fake-jpeg")}},
	})
	if err != nil {
		t.Fatalf("CreateItem() error: %v", err)
	}
	if got.fields["name"] != "Glass jars" || got.fields["quantity"] != "3" || got.fields["duration_days"] != "7" {
		t.Fatalf("fields = %+v", got.fields)
	}
	if len(got.images) != 1 || got.images[0] != "jars.jpg" {
		t.Fatalf("images = %v", got.images)
	}
}

func TestRejectItemBody(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))

	if err := client.RejectItem(context.Background(), "i-9", "blurry photos"); err != nil {
		t.Fatalf("RejectItem() error: %v", err)
	}
	if gotPath != "/admin/items/i-9/reject" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody["reason"] != "blurry photos" {
		t.Fatalf("body = %+v", gotBody)
	}
}

func TestSetUserStatusQuery(t *testing.T) {
	var gotURL string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))

	if err := client.SetUserStatus(context.Background(), "g-7", false); err != nil {
		t.Fatalf("SetUserStatus() error: %v", err)
	}
	if gotURL != "/users/g-7/status?is_active=false" {
		t.Fatalf("url = %q", gotURL)
	}
}

func TestUnreadCount(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unread_count": 4}`))
	}))

	count, err := client.UnreadCount(context.Background())
	if err != nil {
		t.Fatalf("UnreadCount() error: %v", err)
	}
	if count != 4 {
		t.Fatalf("count = %d, want 4", count)
	}
}

func TestStructuredDetailKeptAsDetails(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": [{"loc":["body","name"],"msg":"field required"}]}`))
	}))

	err := client.ApproveItem(context.Background(), "i-1")
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeValidation {
		t.Fatalf("err = %v, want validation code", err)
	}
	if typed.Details() == nil {
		t.Fatal("structured detail should be preserved")
	}
}
