package mockapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Zachkp/zach-dev/internal/contact"
	"github.com/Zachkp/zach-dev/internal/sender"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, BasePath+"/contact/send", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{"name":"Jo","email":"jo@x.co","subject":"Hello there","message":"This is a message."}`

func TestSend_Accepts(t *testing.T) {
	r := NewRouter(Config{RatePerMinute: 10}, zerolog.Nop())
	w := post(r, validBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Data    messageData `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Message == "" {
		t.Errorf("resp = %+v", resp)
	}
	if _, err := uuid.Parse(resp.Data.ID); err != nil {
		t.Errorf("id %q is not a uuid", resp.Data.ID)
	}
	if resp.Data.Status != "new" || resp.Data.Category != "general" {
		t.Errorf("data = %+v", resp.Data)
	}
}

func TestSend_ValidationErrors(t *testing.T) {
	r := NewRouter(Config{RatePerMinute: 10}, zerolog.Nop())
	w := post(r, `{"name":"J0","email":"nope","subject":"Hello there","message":"This is a message."}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Message string              `json:"message"`
		Data    []map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, item := range resp.Data {
		if len(item) != 1 {
			t.Errorf("error object has %d keys", len(item))
		}
		for k, v := range item {
			got[k] = v
		}
	}
	if got["name"] != "Name can only contain letters and spaces" {
		t.Errorf("name error = %q", got["name"])
	}
	if got["email"] != "Please enter a valid email address" {
		t.Errorf("email error = %q", got["email"])
	}
}

func TestSend_Malformed(t *testing.T) {
	r := NewRouter(Config{RatePerMinute: 10}, zerolog.Nop())
	if w := post(r, `{"name":`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSend_RateLimited(t *testing.T) {
	r := NewRouter(Config{RatePerMinute: 2}, zerolog.Nop())
	for i := 0; i < 2; i++ {
		if w := post(r, validBody); w.Code != http.StatusCreated {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
	if w := post(r, validBody); w.Code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", w.Code)
	}
}

func TestAllow_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newServer(Config{RatePerMinute: 1}, zerolog.Nop())
	s.now = func() time.Time { return now }

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		if !s.allow(ip) {
			t.Fatalf("first request from %s refused", ip)
		}
	}
	if s.allow("10.0.0.1") {
		t.Error("second request inside the window allowed")
	}

	now = now.Add(30 * time.Second)
	s.allow("10.0.0.4")
	if len(s.clients) != 4 {
		t.Errorf("clients = %d before idle window, want 4", len(s.clients))
	}

	now = now.Add(idleAfter)
	if !s.allow("10.0.0.1") {
		t.Error("request after idle window refused")
	}
	if len(s.clients) != 1 {
		t.Errorf("clients = %d after sweep, want 1", len(s.clients))
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		text     string
		category string
		priority string
	}{
		{"We are hiring a Go developer", "job", "high"},
		{"Question about the course", "course", "normal"},
		{"Let's collaborate on a project", "project", "normal"},
		{"Just saying hi", "general", "low"},
	}
	for _, tc := range tests {
		c, p := categorize(tc.text)
		if c != tc.category || p != tc.priority {
			t.Errorf("categorize(%q) = %s/%s, want %s/%s", tc.text, c, p, tc.category, tc.priority)
		}
	}
}

// The stub and the client agree on the wire contract.
func TestSenderAgainstStub(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Config{RatePerMinute: 1}, zerolog.Nop()))
	defer srv.Close()

	c, err := sender.New(sender.Config{BaseURL: srv.URL + BasePath, Timeout: 2 * time.Second}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	in := contact.Input{Name: "Jo", Email: "JO@X.CO", Subject: "Hello there", Message: "This is a message."}
	out := c.Send(context.Background(), in)
	if _, ok := out.(contact.Success); !ok {
		t.Fatalf("first Send() = %#v, want Success", out)
	}

	out = c.Send(context.Background(), in)
	if _, ok := out.(contact.RateLimited); !ok {
		t.Errorf("second Send() = %#v, want RateLimited", out)
	}
}

func TestSenderAgainstStub_FieldErrors(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Config{RatePerMinute: 5}, zerolog.Nop()))
	defer srv.Close()

	c, err := sender.New(sender.Config{BaseURL: srv.URL + BasePath}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	out := c.Send(context.Background(), contact.Input{Name: "Jo", Email: "jo@x.co", Subject: "Hi", Message: "This is a message."})
	rej, ok := out.(contact.ValidationRejected)
	if !ok {
		t.Fatalf("Send() = %#v, want ValidationRejected", out)
	}
	want := contact.FieldErrors{Subject: "Subject must be at least 5 characters"}
	if rej.Fields != want {
		t.Errorf("fields = %+v, want %+v", rej.Fields, want)
	}
}
