package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const (
	baseURL = "http://localhost:3000/api"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout, generations can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	token := os.Getenv("API_TOKEN")
	if token == "" {
		color.Red("API_TOKEN is not set. Generate a JWT for a test user first.")
		os.Exit(1)
	}

	color.Cyan("🚀 Starting Intent Pipeline API Test\n")

	// 1. Health (public, no token)
	color.Yellow("\n1. Health Check")
	resp, body, err := sendRequest("GET", "/pipeline/v1/health", "", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var healthResp map[string]interface{}
	json.Unmarshal(body, &healthResp)
	prettyPrint(healthResp)

	// 2. Analyze only (no provider call)
	color.Yellow("\n2. Analyze Input")
	analyzeReq := map[string]interface{}{
		"input": "dame 5 títulos sobre una campaña de marketing, no uses la palabra gratis",
	}
	resp, body, err = sendRequest("POST", "/pipeline/v1/analyze", token, analyzeReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var analyzeResp map[string]interface{}
	json.Unmarshal(body, &analyzeResp)
	prettyPrint(analyzeResp)

	// 3. First process turn
	color.Yellow("\n3. Process: title ideation")
	processReq := map[string]interface{}{
		"session_id": "api-test-session",
		"input":      "dame 5 títulos sobre una campaña de marketing, no uses la palabra gratis",
	}
	resp, body, err = sendRequest("POST", "/pipeline/v1/process", token, processReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var processResp map[string]interface{}
	json.Unmarshal(body, &processResp)
	prettyPrint(processResp)

	// 4. Follow-up turn, constraints should carry over
	color.Yellow("\n4. Process: follow-up in same session")
	followupReq := map[string]interface{}{
		"session_id": "api-test-session",
		"input":      "ahora dame 3 títulos más cortos",
	}
	resp, body, err = sendRequest("POST", "/pipeline/v1/process", token, followupReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	json.Unmarshal(body, &processResp)
	prettyPrint(processResp)

	// 5. Inspect session state
	color.Yellow("\n5. Get Session State")
	resp, body, err = sendRequest("GET", "/pipeline/v1/session/api-test-session", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var sessionResp map[string]interface{}
	json.Unmarshal(body, &sessionResp)
	prettyPrint(sessionResp)

	// 6. Reset session
	color.Yellow("\n6. Reset Session")
	resp, body, err = sendRequest("DELETE", "/pipeline/v1/session/api-test-session", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	json.Unmarshal(body, &sessionResp)
	prettyPrint(sessionResp)

	color.Cyan("\n✅ API test flow completed")
}
