package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("got method %s, want POST", r.Method)
		}
		if got := r.URL.Query().Get("model"); got != "cnn-lstm" {
			t.Errorf("got model %q, want cnn-lstm", got)
		}
		json.NewEncoder(w).Encode(Result{Label: "mosquito", Confidence: 0.93})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL)
	result, err := c.Classify(context.Background(), []byte("RIFF...."), "cnn-lstm")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Label != "mosquito" || result.Confidence != 0.93 {
		t.Errorf("got %+v", result)
	}
}

func TestClassifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL)
	if _, err := c.Classify(context.Background(), []byte("RIFF...."), "cnn"); err == nil {
		t.Error("expected error on server failure")
	}
}

func TestClassifyRejectsOutOfRangeConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Result{Label: "mosquito", Confidence: 1.7})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL)
	if _, err := c.Classify(context.Background(), []byte("RIFF...."), "cnn"); err == nil {
		t.Error("expected error on confidence outside [0,1]")
	}
}
