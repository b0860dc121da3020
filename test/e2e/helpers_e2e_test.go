//go:build e2e

// Package e2e_test drives a running server over HTTP. Start the stack with
// AI_PROVIDER=stub and DB_AUTO_SCHEMA=true, then run:
//
//	E2E_BASE_URL=http://localhost:8080 go test -tags e2e ./test/e2e/...
package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// getenv returns the value of the environment variable k or def if empty.
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

// newUserID returns a user id that cannot collide with earlier runs.
func newUserID() string { return "e2e-" + uuid.NewString() }

// waitForAppReady polls /readyz until the server reports ready or timeout elapses.
func waitForAppReady(t *testing.T, client *http.Client, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/readyz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(time.Second)
	}
	t.Skipf("app not ready at %s after %s", baseURL, timeout)
}

// doJSON sends body (if non-nil) as JSON and decodes the response into a map.
func doJSON(t *testing.T, client *http.Client, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, baseURL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), fmt.Sprintf("body: %s", raw))
	}
	return resp.StatusCode, out
}
