package eco

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientVerifyRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req VerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Name != "Bamboo Cup" {
			t.Errorf("Name = %q", req.Name)
		}
		if req.ImageURL != "https://cdn.example.com/cup.jpg" {
			t.Errorf("ImageURL = %q", req.ImageURL)
		}

		json.NewEncoder(w).Encode(Verdict{
			Verified:   true,
			Label:      "bamboo",
			Confidence: 0.92,
		})
	}))
	defer srv.Close()

	cl := NewClient(srv.URL, "test-key")
	got, err := cl.Verify(context.Background(), VerifyRequest{
		Name:       "Bamboo Cup",
		ClaimLabel: "bamboo",
		ImageURL:   "https://cdn.example.com/cup.jpg",
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if !got.Verified {
		t.Error("expected verified verdict")
	}
	if got.Confidence != 0.92 {
		t.Errorf("Confidence = %v, want 0.92", got.Confidence)
	}
}

func TestClientServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cl := NewClient(srv.URL, "")
	_, err := cl.Verify(context.Background(), VerifyRequest{
		Name:        "Bamboo Cup",
		Description: "reusable cup made from organic bamboo",
		ClaimLabel:  "bamboo",
	})

	// A configured classifier that is down must fail the call, never be
	// replaced by a local guess.
	if err == nil {
		t.Fatal("expected error from failing classifier")
	}
}

func TestClientMalformedBodySurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json at all"))
	}))
	defer srv.Close()

	cl := NewClient(srv.URL, "")
	got, err := cl.Verify(context.Background(), VerifyRequest{
		Name:        "Bamboo Cup",
		Description: "reusable cup made from organic bamboo",
		ClaimLabel:  "bamboo",
	})
	if err == nil {
		t.Fatalf("expected error for unparseable verdict, got %+v", got)
	}
}

func TestClientBadConfidenceSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Verdict{Verified: true, Confidence: 7.5})
	}))
	defer srv.Close()

	cl := NewClient(srv.URL, "")
	_, err := cl.Verify(context.Background(), VerifyRequest{ClaimLabel: "premium"})
	if err == nil {
		t.Fatal("out-of-range confidence must not be trusted")
	}
}

func TestClientOfflineUsesKeywordClassifier(t *testing.T) {
	cl := NewClient("", "")
	got, err := cl.Verify(context.Background(), VerifyRequest{
		Description: "recycled and compostable",
		ClaimLabel:  "recycled",
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !got.Verified {
		t.Error("expected keyword classifier to verify the claim")
	}
}
