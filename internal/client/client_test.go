package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyreview/internal/api"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestGradeSendsWireBody(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/marcar/42", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(api.GradeResponse{
			Status:       api.StatusOK,
			NextReview:   "2024-06-01",
			IntervalDays: 6,
			EaseFactor:   2.6,
		})
	})

	elapsed := 12
	resp, err := c.Grade(context.Background(), 42, api.GradeRequest{
		Quality:      5,
		Confidence:   4,
		ResponseTime: &elapsed,
		Interacted:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", resp.NextReview)
	assert.Equal(t, 6, resp.IntervalDays)

	assert.Equal(t, float64(5), got["quality"])
	assert.Equal(t, float64(4), got["nivel_confianca"])
	assert.Equal(t, float64(12), got["tempo_resposta"])
	assert.Equal(t, true, got["interagiu"])
}

func TestGradeNullResponseTime(t *testing.T) {
	var raw map[string]json.RawMessage
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_ = json.NewEncoder(w).Encode(api.GradeResponse{Status: api.StatusOK})
	})

	_, err := c.Grade(context.Background(), 1, api.GradeRequest{Quality: 3, Confidence: 3})
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw["tempo_resposta"]))
}

func TestGradeErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"status erro", http.StatusOK, `{"status":"erro","mensagem":"Revisão não encontrada"}`, "Revisão não encontrada"},
		{"http failure", http.StatusBadRequest, `{"status":"erro","mensagem":"Quality deve ser um número entre 0 e 5"}`, "Quality deve ser um número entre 0 e 5"},
		{"no body", http.StatusInternalServerError, ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Grade(context.Background(), 9, api.GradeRequest{Quality: 4, Confidence: 3})
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"erro","mensagem":"Usuário não autenticado"}`))
	})

	_, err := c.DueReviews(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestLoginKeepsCookie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			http.SetCookie(w, &http.Cookie{Name: "session_token", Value: "abc", Path: "/"})
			_ = json.NewEncoder(w).Encode(api.StatusResponse{Status: api.StatusOK})
		case "/api/reviews":
			cookie, err := r.Cookie("session_token")
			if err != nil || cookie.Value != "abc" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(api.ReviewList{
				Urgent: []api.Review{{ID: 1, Subject: "Math", Topic: "Limits", Mode: "quiz"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	require.NoError(t, c.Login(context.Background(), "a@b.c", "secret"))
	list, err := c.DueReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Urgent, 1)
	assert.Equal(t, int64(1), list.Urgent[0].ID)
}

func TestRegisterStudy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req api.StudyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Topic == "" {
			_ = json.NewEncoder(w).Encode(api.StatusResponse{Status: api.StatusError, Message: "Tópico obrigatório"})
			return
		}
		_ = json.NewEncoder(w).Encode(api.StatusResponse{Status: api.StatusSuccess})
	})

	assert.NoError(t, c.RegisterStudy(context.Background(), api.StudyRequest{Subject: "Bio", Topic: "Cells"}))

	err := c.RegisterStudy(context.Background(), api.StudyRequest{Subject: "Bio"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Tópico obrigatório", apiErr.Message)
}
