// Command scheduledemo exercises a running service end to end: it posts
// free-text scheduling requests to /schedule and prints the ranked answers.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const defaultTimeout = 60 * time.Second

var demoRequests = []string{
	"Find me a one-hour slot next week with ana@example.com and bo@example.com",
	"Need 30 minutes tomorrow morning with the team: ana@example.com, cy@example.com",
	"Book something on Tuesday or Thursday next week with bo@example.com",
}

type scheduleRequest struct {
	Text string `json:"text"`
}

type scheduleResponse struct {
	RequestID          string `json:"request_id"`
	Message            string `json:"message"`
	NeedsClarification bool   `json:"needs_clarification"`
	Slots              []struct {
		Start       string  `json:"start"`
		End         string  `json:"end"`
		Score       float64 `json:"score"`
		Available   int     `json:"available"`
		Total       int     `json:"total"`
		Recommended bool    `json:"recommended"`
	} `json:"slots"`
}

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		text    = flag.String("text", "", "Single scheduling request to send (default: a canned demo set)")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	client := &http.Client{Timeout: *timeout}

	requests := demoRequests
	if strings.TrimSpace(*text) != "" {
		requests = []string{*text}
	}

	for _, utterance := range requests {
		fmt.Printf("> %s\n", utterance)
		if err := send(client, *baseURL, utterance); err != nil {
			os.Stderr.WriteString("request failed: " + err.Error() + "\n")
			os.Exit(1)
		}
		fmt.Println()
	}
}

func send(client *http.Client, baseURL, text string) error {
	body, err := json.Marshal(scheduleRequest{Text: text})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := client.Post(baseURL+"/schedule", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post /schedule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, payload)
	}

	var answer scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	fmt.Printf("[%s]\n%s\n", answer.RequestID, answer.Message)
	if answer.NeedsClarification {
		return nil
	}
	for _, s := range answer.Slots {
		marker := " "
		if s.Recommended {
			marker = "*"
		}
		fmt.Printf(" %s %s - %s  score=%.1f  %d/%d available\n",
			marker, s.Start, s.End, s.Score, s.Available, s.Total)
	}
	return nil
}
