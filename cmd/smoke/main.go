// Command smoke drives a running poynts-admin-api instance end to end:
// mint a token, list campaigns, create one, delete it again.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

func main() {
	base := os.Getenv("POYNTS_SMOKE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	orgID := os.Getenv("POYNTS_SMOKE_ORG")

	httpc := &http.Client{Timeout: 10 * time.Second}

	token := obtainToken(httpc, base, orgID)

	status, _ := call(httpc, http.MethodGet, base+"/api/v1/campaigns", token, nil)
	if status != http.StatusOK {
		log.Fatalf("list campaigns: unexpected status %d", status)
	}

	name := fmt.Sprintf("smoke-%d", rand.Int())
	status, body := call(httpc, http.MethodPost, base+"/api/v1/campaigns", token, map[string]any{
		"name":   name,
		"status": "draft",
	})
	if status != http.StatusCreated {
		log.Fatalf("create campaign: unexpected status %d: %s", status, body)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.ID == "" {
		log.Fatalf("create campaign: response carried no id: %s", body)
	}

	status, body = call(httpc, http.MethodDelete, base+"/api/v1/campaigns/"+created.ID, token, nil)
	if status != http.StatusNoContent {
		log.Fatalf("delete campaign: unexpected status %d: %s", status, body)
	}

	fmt.Printf("✅ smoke test passed: campaign=%s\n", created.ID)
}

func obtainToken(httpc *http.Client, base, orgID string) string {
	payload := map[string]any{
		"user":            "smoke",
		"organization_id": orgID,
		"permissions":     []string{"campaigns.view", "campaigns.manage"},
	}
	status, body := call(httpc, http.MethodPost, base+"/api/v1/auth/token", "", payload)
	if status != http.StatusOK {
		log.Fatalf("obtain token: unexpected status %d: %s", status, body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Token == "" {
		log.Fatalf("obtain token: empty token: %s", body)
	}
	return resp.Token
}

func call(httpc *http.Client, method, url, token string, payload any) (int, []byte) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := httpc.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}
