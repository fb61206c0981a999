package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maajidpp/linkza/pkg/errors"
	"github.com/maajidpp/linkza/pkg/tile"
)

func TestFetchPublicLayout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/layout" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("username"); got != "jane-doe" {
			t.Errorf("username = %q, want jane-doe", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tiles":[{"id":"t1","type":"heading","content":{"text":"Hi"},"x":0,"y":0,"w":4,"h":1}],"revision":7}`))
	}))
	defer srv.Close()

	lay, err := New(srv.URL).Fetch(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if lay.Revision != 7 || len(lay.Tiles) != 1 {
		t.Fatalf("got revision %d with %d tiles, want 7 and 1", lay.Revision, len(lay.Tiles))
	}
	if lay.Tiles[0].Type != tile.TypeHeading {
		t.Errorf("tile type = %q, want heading", lay.Tiles[0].Type)
	}
}

func TestFetchStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   errors.Code
	}{
		{"unknown user", http.StatusNotFound, errors.ErrCodeUserNotFound},
		{"no session", http.StatusUnauthorized, errors.ErrCodeUnauthorized},
		{"server failure", http.StatusInternalServerError, errors.ErrCodeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := New(srv.URL).Fetch(context.Background(), "ghost")
			if !errors.Is(err, tt.code) {
				t.Errorf("Fetch() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFetchOwnerSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("owner fetch carried query %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"tiles":[],"revision":0}`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL, WithToken("tok-123")).Fetch(context.Background(), ""); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
}

func TestSaveSendsTilesAndRevision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req saveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Revision != 41 || len(req.Tiles) != 1 {
			t.Errorf("got revision %d with %d tiles, want 41 and 1", req.Revision, len(req.Tiles))
		}
		json.NewEncoder(w).Encode(map[string]any{"tiles": req.Tiles, "revision": 42})
	}))
	defer srv.Close()

	text, err := tile.New(tile.TypeText, &tile.TextContent{Text: "hello"})
	if err != nil {
		t.Fatalf("New tile: %v", err)
	}
	lay, err := New(srv.URL).Save(context.Background(), []*tile.Tile{text}, 41)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if lay.Revision != 42 {
		t.Errorf("revision = %d, want 42", lay.Revision)
	}
}

func TestSaveNilTilesSendsEmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if string(raw["tiles"]) != "[]" {
			t.Errorf("tiles = %s, want []", raw["tiles"])
		}
		w.Write([]byte(`{"tiles":[],"revision":1}`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Save(context.Background(), nil, 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func TestSaveConflictIsStaleRevision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Save(context.Background(), nil, 3)
	if !errors.Is(err, errors.ErrCodeStaleRevision) {
		t.Errorf("Save() error = %v, want STALE_REVISION", err)
	}
}

func TestUnreachableBackendIsNetworkError(t *testing.T) {
	// Port 1 refuses connections.
	_, err := New("http://127.0.0.1:1").Fetch(context.Background(), "anyone")
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("Fetch() error = %v, want NETWORK_ERROR", err)
	}
}
