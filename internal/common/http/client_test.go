package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "eligibility-intake/internal/common/errors"
	"eligibility-intake/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestClient(t *testing.T, baseURL string, maxRetries int) *Client {
	return NewClient(Config{
		BaseURL:      baseURL,
		Timeout:      2 * time.Second,
		MaxRetries:   maxRetries,
		RetryBackoff: time.Millisecond,
	}, logger.NewTestLogger(t))
}

func TestClient_GetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/programs", r.URL.Path)
		assert.Equal(t, "technion", r.URL.Query().Get("institution"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": "cs"}]`))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL+"/", 0)

	var out []map[string]string
	err := client.GetJSON(context.Background(), "/programs", url.Values{"institution": {"technion"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "cs", out[0]["id"])
}

func TestClient_GetRaw_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`["technion"]`))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL, 2)

	body, err := client.GetRaw(context.Background(), "/institutions", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `["technion"]`, string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_GetRaw_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Unsupported institution: mit"}`))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL, 3)

	_, err := client.GetRaw(context.Background(), "/programs", url.Values{"institution": {"mit"}})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeServerError, stdErr.Code)
	assert.Equal(t, http.StatusBadRequest, stdErr.Status)
	assert.Equal(t, `{"detail":"Unsupported institution: mit"}`, stdErr.Details)
}

func TestClient_PostJSON_NeverRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL, 3)

	_, err := client.PostJSON(context.Background(), "/compute", map[string]interface{}{"institutions": []string{"technion"}})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeServerError))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := createTestClient(t, baseURL, 1)

	_, err := client.GetRaw(context.Background(), "/subjects", nil)
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeNetworkError, stdErr.Code)
	assert.NotEmpty(t, stdErr.Details)
	assert.NotContains(t, stdErr.Details, "Get \"", "url.Error prefix is stripped")
}

func TestClient_GetJSON_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL, 0)

	var out []string
	err := client.GetJSON(context.Background(), "/institutions", nil, &out)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeResponseShapeInvalid))
}

func TestClient_GetRaw_RejectsOversizedBody(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`["technion","huji","bgu"]`))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:      server.URL,
		Timeout:      2 * time.Second,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
		MaxBodyBytes: 16,
	}, logger.NewTestLogger(t))

	_, err := client.GetRaw(context.Background(), "/institutions", nil)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeResponseShapeInvalid))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "oversized bodies are not retried")
}

func TestClient_GetRaw_BodyAtLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["technion"]`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: 2 * time.Second, MaxBodyBytes: 12}, logger.NewTestLogger(t))

	body, err := client.GetRaw(context.Background(), "/institutions", nil)
	require.NoError(t, err)
	assert.Equal(t, `["technion"]`, string(body))
}

func TestClient_PostJSON_ReadsLargeBody(t *testing.T) {
	large := strings.Repeat("x", defaultMaxBodyBytes+1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{{"program_name": large}})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second, MaxBodyBytes: 16}, logger.NewTestLogger(t))

	body, err := client.PostJSON(context.Background(), "/compute", map[string]interface{}{"institutions": []string{"technion"}})
	require.NoError(t, err)

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.Len(t, decoded, 1)
	assert.Len(t, decoded[0]["program_name"], len(large))
}

func TestClient_ContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:      server.URL,
		Timeout:      time.Second,
		MaxRetries:   5,
		RetryBackoff: time.Hour,
	}, logger.NewNoOpLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.GetRaw(ctx, "/subjects", nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNetworkError))
}
