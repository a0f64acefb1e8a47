// internal/common/http/client_test.go
package http

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "valuation-cli/test", r.Header.Get("User-Agent"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"echo":"` + in["name"] + `"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(time.Second, "valuation-cli/test").PostJSON(context.Background(), srv.URL, map[string]string{"name": "Jane"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.JSONEq(t, `{"echo":"Jane"}`, string(resp.Body))
}

func TestPostJSON_Errors(t *testing.T) {
	client := NewClient(time.Second, "")

	_, err := client.PostJSON(context.Background(), "http://example.invalid", math.NaN())
	assert.ErrorContains(t, err, "marshal")

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	_, err = client.PostJSON(context.Background(), srv.URL, map[string]string{})
	assert.ErrorContains(t, err, "execute")
}
