package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

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
func sendRequest(method, url, sessionID string, body interface{}) (*http.Response, []byte, error) {
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
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}

	client := &http.Client{} // No timeout; transcription can run long
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decode(body []byte) map[string]interface{} {
	var out map[string]interface{}
	json.Unmarshal(body, &out)
	return out
}

func main() {
	color.Cyan("🚀 Starting Scribe API Smoke Test\n")

	apiKey := os.Getenv("OPENAI_API_KEY")
	audioPath := os.Getenv("SMOKE_AUDIO_FILE")

	// 1. Create Session
	color.Yellow("\n1. Create Session")
	resp, body, err := sendRequest("POST", "/session/v1", "", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	created := decode(body)
	prettyPrint(created)

	var sessionID string
	if data, ok := created["data"].(map[string]interface{}); ok {
		if id, ok := data["id"].(string); ok {
			sessionID = id
		}
	}
	if sessionID == "" {
		color.Red("No session id in response")
		os.Exit(1)
	}

	// 2. Upload without a key must be rejected
	color.Yellow("\n2. Upload Without API Key (expect 400)")
	resp, body, err = uploadFile(sessionID, []byte("not really audio"), "audio/webm", "probe.webm")
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 3. Save API Key
	color.Yellow("\n3. Save API Key")
	resp, body, err = sendRequest("PUT", "/session/v1/key", sessionID, map[string]interface{}{
		"api_key": apiKey,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 4. Session State
	color.Yellow("\n4. Get Session State")
	resp, body, err = sendRequest("GET", "/session/v1/state", sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 5. Upload a real file when one is provided
	if apiKey != "" && audioPath != "" {
		color.Yellow("\n5. Upload Audio File (%s)", audioPath)
		audio, err := os.ReadFile(audioPath)
		if err != nil {
			color.Red("Failed to read %s: %v", audioPath, err)
			os.Exit(1)
		}
		resp, body, err = uploadFile(sessionID, audio, "audio/webm", "consultation.webm")
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		prettyPrint(decode(body))
	} else {
		color.Yellow("\n5. Skipping real upload (set OPENAI_API_KEY and SMOKE_AUDIO_FILE)")
	}

	// 6. List Notes
	color.Yellow("\n6. List Notes")
	resp, body, err = sendRequest("GET", "/note/v1", sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 7. Clear API Key
	color.Yellow("\n7. Clear API Key")
	resp, body, err = sendRequest("DELETE", "/session/v1/key", sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\n✅ Smoke test finished")
}

func uploadFile(sessionID string, data []byte, contentType, filename string) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, nil, err
	}
	writer.Close()

	req, err := http.NewRequest("POST", baseURL+"/scribe/v1/upload", &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Session-Id", sessionID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}
