// Command ordertester is a manual client for exercising the chat endpoints
// against a running backend. It can run a single turn in aggregate mode or
// follow the SSE stream chunk by chunk.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env file, using system environment: %v", err)
	}

	mode := flag.String("mode", "chat", "test mode: chat or stream")
	baseURL := flag.String("url", "http://localhost:8080", "backend base URL")
	message := flag.String("message", "", "customer message to send")
	session := flag.String("session", "", "session id, generated when empty")
	timeout := flag.Duration("timeout", 60*time.Second, "request timeout")

	flag.Parse()

	if strings.TrimSpace(*message) == "" {
		flag.Usage()
		log.Fatal("provide a customer message with -message")
	}

	sessionID := *session
	if sessionID == "" {
		sessionID = "manual-" + uuid.NewString()
		log.Printf("generated session id %s", sessionID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *mode {
	case "chat":
		runChat(ctx, *baseURL, sessionID, *message)
	case "stream":
		runStream(ctx, *baseURL, sessionID, *message)
	default:
		flag.Usage()
		log.Fatal("specify -mode=chat or -mode=stream")
	}
}

func post(ctx context.Context, url, sessionID, message string) (*http.Response, error) {
	body, err := json.Marshal(map[string]string{
		"message":   message,
		"sessionId": sessionID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return http.DefaultClient.Do(req)
}

func runChat(ctx context.Context, baseURL, sessionID, message string) {
	resp, err := post(ctx, baseURL+"/chat", sessionID, message)
	if err != nil {
		log.Fatalf("chat request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("chat returned %d: %s", resp.StatusCode, raw)
	}

	var payload struct {
		SessionID string `json:"sessionId"`
		Reply     string `json:"reply"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Fatalf("decode response failed: %v", err)
	}

	log.Printf("session=%s", payload.SessionID)
	fmt.Println(payload.Reply)
}

func runStream(ctx context.Context, baseURL, sessionID, message string) {
	resp, err := post(ctx, baseURL+"/chat/stream", sessionID, message)
	if err != nil {
		log.Fatalf("stream request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		log.Fatalf("stream returned %d: %s", resp.StatusCode, raw)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var frame struct {
			Content string `json:"content"`
			Done    bool   `json:"done"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame); err != nil {
			log.Printf("[WARN] unparseable frame: %s", line)
			continue
		}

		switch {
		case frame.Error != "":
			log.Fatalf("stream error: %s", frame.Error)
		case frame.Done:
			fmt.Println()
			log.Printf("turn complete for session=%s", sessionID)
			return
		default:
			fmt.Print(frame.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("stream read failed: %v", err)
	}
}
