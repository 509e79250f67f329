package device

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"irconsole"
)

func TestFetchSaved(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/saved" {
			t.Errorf("path = %q, want /saved", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"index":1,"name":"TV","protocol":"NEC","value":"A1B2","bits":32}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	items, err := c.FetchSaved(context.Background())
	if err != nil {
		t.Fatalf("FetchSaved: %v", err)
	}
	if len(items) != 1 || items[0].Index != 1 || items[0].Value != "A1B2" {
		t.Fatalf("items = %+v", items)
	}
}

func TestSendCode_QueryShape(t *testing.T) {
	t.Parallel()

	var gotType, gotData, gotLength string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send" {
			t.Errorf("path = %q, want /send", r.URL.Path)
		}
		q := r.URL.Query()
		gotType, gotData, gotLength = q.Get("type"), q.Get("data"), q.Get("length")
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.SendCode(context.Background(), "A1B2C3D4", 32); err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	if gotType != "nec" || gotData != "A1B2C3D4" || gotLength != "32" {
		t.Fatalf("query = type=%q data=%q length=%q", gotType, gotData, gotLength)
	}
}

func TestSendCode_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse all connections

	c := NewClient(srv.URL)
	if err := c.SendCode(context.Background(), "FF", 32); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestMutations_AckFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{"accepted", `{"ok":true}`, true},
		{"rejected is a no-op not an error", `{"ok":false,"error":"bad index"}`, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			ctx := context.Background()

			ok, err := c.Save(ctx, "NEC", "A1B2", 32, "TV")
			if err != nil || ok != tc.wantOK {
				t.Fatalf("Save ok=%v err=%v, want ok=%v", ok, err, tc.wantOK)
			}
			ok, err = c.Rename(ctx, 3, "new name")
			if err != nil || ok != tc.wantOK {
				t.Fatalf("Rename ok=%v err=%v, want ok=%v", ok, err, tc.wantOK)
			}
			ok, err = c.Delete(ctx, 3)
			if err != nil || ok != tc.wantOK {
				t.Fatalf("Delete ok=%v err=%v, want ok=%v", ok, err, tc.wantOK)
			}
		})
	}
}

func TestRename_QueryShape(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/saved/rename" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("index") != "7" || q.Get("name") != "Bedroom AC" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if ok, err := c.Rename(context.Background(), 7, "Bedroom AC"); err != nil || !ok {
		t.Fatalf("Rename ok=%v err=%v", ok, err)
	}
}

func TestImport_RoundTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/saved/import" || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var items []irconsole.SavedCommand
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(irconsole.ImportResult{OK: true, Imported: len(items), Skipped: 0})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Import(context.Background(), []irconsole.SavedCommand{
		{Name: "a", Protocol: "NEC", Value: "1", Bits: 32},
		{Name: "b", Protocol: "NEC", Value: "2", Bits: 32},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !res.OK || res.Imported != 2 {
		t.Fatalf("result = %+v", res)
	}
}
