// cmd/tools/valuation-cli/main_test.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestEstimate_Text(t *testing.T) {
	out, _, err := run(t, "estimate", "--revenue", "1000000", "--margin", "20", "--assets", "500000", "--industry", "tech")

	require.NoError(t, err)
	assert.Contains(t, out, "Asset-based valuation:     $500,000")
	assert.Contains(t, out, "Market multiple valuation: $3,250,000")
	assert.Contains(t, out, "DCF valuation:             $4,200,000")
	assert.Contains(t, out, "Recommended range:         $500,000 - $4,200,000")
}

func TestEstimate_JSON(t *testing.T) {
	out, _, err := run(t, "estimate", "--revenue", "500000", "--margin", "12", "--assets", "0", "--industry", "services", "--json")
	require.NoError(t, err)

	var res map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 1260000.0, res["dcf"], 1e-6)
}

func TestEstimate_Rejections(t *testing.T) {
	_, errOut, err := run(t, "estimate", "--revenue", "lots", "--margin", "20", "--assets", "1")
	assert.Error(t, err)
	assert.Contains(t, errOut, "annualRevenue")

	_, _, err = run(t, "estimate", "--revenue", "1", "--margin", "1", "--assets", "1", "--industry", "mining")
	assert.Error(t, err)
}

func TestEstimate_NonFiniteFigures(t *testing.T) {
	tests := []struct {
		name    string
		revenue string
		want    string
	}{
		{"infinite input", "Infinity", "annualRevenue"},
		{"overflowing result", "1e308", "marketMultiple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := run(t, "estimate", "--revenue", tt.revenue, "--margin", "20", "--assets", "1", "--json")

			require.Error(t, err)
			assert.Empty(t, out)
			assert.Contains(t, errOut, tt.want)
			assert.Contains(t, errOut, "not a finite number")
		})
	}
}

func TestEnquire_RevealsResultsAfterSubmission(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Enquiry submitted successfully"}`))
	}))
	defer srv.Close()

	out, _, err := run(t, "enquire",
		"--revenue", "1000000", "--margin", "20", "--assets", "500000", "--industry", "tech",
		"--name", "Jane Doe", "--email", "jane@acme.test", "--phone", "555-0100", "--company", "Acme",
		"--endpoint", srv.URL)

	require.NoError(t, err)
	assert.EqualValues(t, 1, calls)
	assert.Contains(t, out, "Market multiple valuation: $3,250,000")
}

func TestEnquire_FailureWithholdsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Missing required fields"}`))
	}))
	defer srv.Close()

	out, errOut, err := run(t, "enquire",
		"--revenue", "1000000", "--margin", "20", "--assets", "500000",
		"--name", "Jane Doe", "--endpoint", srv.URL)

	assert.Error(t, err)
	assert.Contains(t, errOut, "Failed to submit enquiry. Please try again.")
	assert.NotContains(t, out, "$3,250,000")
}
