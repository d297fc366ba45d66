package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClientWithHTTP(srv.URL, srv.Client()), srv
}

// ---------------------------------------------------------------------------
// ConventionResponseCode
// ---------------------------------------------------------------------------

func TestCall_ResponseCodeSuccess(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseCode":"00","data":[{"id":"1"}],"message":"ok"}`))
	})
	defer srv.Close()

	res := c.Call(context.Background(), Request{
		Method: "GET", Path: "/project/budget/list", Domain: "budget",
		Convention: ConventionResponseCode, Token: "tok",
	})

	if !res.Success {
		t.Fatalf("Success = false: %+v", res)
	}
	var rows []map[string]any
	if err := json.Unmarshal(res.Data, &rows); err != nil || len(rows) != 1 {
		t.Errorf("Data = %s, want one row", res.Data)
	}
}

func TestCall_ResponseCodeFailureDespite200(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		// HTTP 200 with a business failure code — must be treated as failure.
		_, _ = w.Write([]byte(`{"responseCode":"96","message":"insufficient funds"}`))
	})
	defer srv.Close()

	res := c.Call(context.Background(), Request{
		Method: "POST", Path: "/project/budget/create", Domain: "budget",
		Convention: ConventionResponseCode, Token: "tok",
	})

	if res.Success {
		t.Fatal("Success = true for responseCode 96")
	}
	if res.Message != "insufficient funds" {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestCall_ResponseCodeSuccessDespite500(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		// Platform quirk: responseCode wins over HTTP status, both directions.
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"responseCode":"00","data":{"id":"9"}}`))
	})
	defer srv.Close()

	res := c.Call(context.Background(), Request{
		Method: "GET", Path: "/at/search", Domain: "at",
		Convention: ConventionResponseCode, Token: "tok",
	})

	if !res.Success {
		t.Errorf("Success = false despite responseCode 00: %+v", res)
	}
}

// ---------------------------------------------------------------------------
// ConventionHTTPStatus
// ---------------------------------------------------------------------------

func TestCall_HTTPStatusSuccess(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"c1","name":"Acme"}]}`))
	})
	defer srv.Close()

	res := c.Call(context.Background(), Request{
		Method: "GET", Path: "/content/company/list", Domain: "content",
		Convention: ConventionHTTPStatus, Token: "tok",
	})

	if !res.Success {
		t.Fatalf("Success = false: %+v", res)
	}
}

func TestCall_HTTPStatusFailure(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"name already taken"}`))
	})
	defer srv.Close()

	res := c.Call(context.Background(), Request{
		Method: "POST", Path: "/org/create", Domain: "org",
		Convention: ConventionHTTPStatus, Token: "tok",
	})

	if res.Success {
		t.Fatal("Success = true for HTTP 400")
	}
	if res.Message != "name already taken" {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestCall_HTTPStatusBodySuccessFalseWins(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"validation failed"}`))
	})
	defer srv.Close()

	res := c.Call(context.Background(), Request{
		Method: "POST", Path: "/org/create", Domain: "org",
		Convention: ConventionHTTPStatus, Token: "tok",
	})

	if res.Success {
		t.Error("Success = true when body said success=false")
	}
}

// ---------------------------------------------------------------------------
// Transport behavior
// ---------------------------------------------------------------------------

func TestCall_SendsBearerToken(t *testing.T) {
	var gotAuth string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"responseCode":"00"}`))
	})
	defer srv.Close()

	c.Call(context.Background(), Request{
		Method: "GET", Path: "/um/profile", Domain: "um",
		Convention: ConventionResponseCode, Token: "my-token",
	})

	if gotAuth != "Bearer my-token" {
		t.Errorf("Authorization = %q, want 'Bearer my-token'", gotAuth)
	}
}

func TestCall_NetworkError(t *testing.T) {
	c := NewClient(&config.UpstreamConfig{BaseURL: "http://127.0.0.1:1"})

	res := c.Call(context.Background(), Request{
		Method: "GET", Path: "/um/profile", Domain: "um",
		Convention: ConventionResponseCode, Token: "tok",
	})

	if res.Success {
		t.Fatal("Success = true for unreachable host")
	}
	if res.Error == "" {
		t.Error("Error empty for transport failure")
	}
}

func TestCall_MalformedJSON(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseCode":`))
	})
	defer srv.Close()

	res := c.Call(context.Background(), Request{
		Method: "GET", Path: "/configs/list", Domain: "configs",
		Convention: ConventionResponseCode, Token: "tok",
	})

	if res.Success || res.Error == "" {
		t.Errorf("malformed body not reported as error: %+v", res)
	}
}

// ---------------------------------------------------------------------------
// Tokens
// ---------------------------------------------------------------------------

func TestTokens_TopLevel(t *testing.T) {
	at, rt := Tokens(json.RawMessage(`{"access_token":"a","refresh_token":"r"}`))
	if at != "a" || rt != "r" {
		t.Errorf("Tokens = (%q, %q)", at, rt)
	}
}

func TestTokens_Nested(t *testing.T) {
	at, rt := Tokens(json.RawMessage(`{"data":{"access_token":"a2","refresh_token":"r2"}}`))
	if at != "a2" || rt != "r2" {
		t.Errorf("Tokens = (%q, %q)", at, rt)
	}
}

func TestTokens_Absent(t *testing.T) {
	at, rt := Tokens(json.RawMessage(`{"data":{"user":"x"}}`))
	if at != "" || rt != "" {
		t.Errorf("Tokens = (%q, %q), want empty", at, rt)
	}
}
