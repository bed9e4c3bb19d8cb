//go:build e2e

package e2e

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
)

func TestRemoteAPI_OpsEndpoints(t *testing.T) {
	baseURL := strings.TrimRight(envOr("E2E_BASE_URL", "http://127.0.0.1:8080"), "/")
	client := &http.Client{Timeout: 60 * time.Second}

	t.Run("healthz", func(t *testing.T) {
		status, body, err := doRequest(client, http.MethodGet, baseURL+"/healthz")
		if err != nil {
			t.Fatalf("healthz request: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("healthz status=%d body=%s", status, string(body))
		}
	})

	var triggered map[string]any
	t.Run("manual tick then last tick", func(t *testing.T) {
		status, body, err := doRequest(client, http.MethodPost, baseURL+"/ops/ticks")
		if err != nil {
			t.Fatalf("trigger request: %v", err)
		}
		if status == http.StatusConflict {
			t.Skipf("scheduled tick was running: %s", string(body))
		}
		if status != http.StatusOK {
			t.Fatalf("trigger status=%d body=%s", status, string(body))
		}
		if err := sonic.Unmarshal(body, &triggered); err != nil {
			t.Fatalf("unmarshal tick: %v body=%s", err, string(body))
		}
		tickID, _ := triggered["tick_id"].(string)
		if tickID == "" {
			t.Fatalf("missing tick_id: %s", string(body))
		}
		results := asSlice(triggered["results"])
		seen := map[string]bool{}
		for _, r := range results {
			agentID, _ := asMap(r)["agent_id"].(string)
			if seen[agentID] {
				t.Fatalf("agent %s processed twice in tick %s", agentID, tickID)
			}
			seen[agentID] = true
		}

		status, lastBody, err := doRequest(client, http.MethodGet, baseURL+"/ops/ticks/last")
		if err != nil {
			t.Fatalf("last tick request: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("last tick status=%d body=%s", status, string(lastBody))
		}
	})

	t.Run("overlapping triggers never both run", func(t *testing.T) {
		var wg sync.WaitGroup
		statuses := make([]int, 2)
		for i := range statuses {
			wg.Add(1)
			go func() {
				defer wg.Done()
				statuses[i], _, _ = doRequest(client, http.MethodPost, baseURL+"/ops/ticks")
			}()
		}
		wg.Wait()
		for _, s := range statuses {
			if s != http.StatusOK && s != http.StatusConflict {
				t.Fatalf("unexpected trigger statuses %v", statuses)
			}
		}
	})

	t.Run("kpi", func(t *testing.T) {
		status, body, err := doRequest(client, http.MethodGet, baseURL+"/ops/kpi")
		if err != nil {
			t.Fatalf("kpi request: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("kpi status=%d body=%s", status, string(body))
		}
		var kpi map[string]any
		if err := sonic.Unmarshal(body, &kpi); err != nil {
			t.Fatalf("unmarshal kpi: %v", err)
		}
		if ticks, _ := kpi["ticks"].(float64); ticks < 1 {
			t.Fatalf("expected at least one tick in kpi, got %s", string(body))
		}
	})
}

func doRequest(client *http.Client, method, url string) (int, []byte, error) {
	var lastStatus int
	var lastBody []byte
	var lastErr error
	for attempt := range 3 {
		req, err := http.NewRequest(method, url, bytes.NewReader(nil))
		if err != nil {
			return 0, nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		lastStatus, lastBody, lastErr = resp.StatusCode, respBody, nil
		if resp.StatusCode >= 500 {
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		return resp.StatusCode, respBody, nil
	}
	if lastErr != nil {
		return 0, nil, lastErr
	}
	return lastStatus, lastBody, nil
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}
