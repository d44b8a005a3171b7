package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Ranadipgithub/CodeUP/internal/config"
	"github.com/Ranadipgithub/CodeUP/pkg/logger"
)

const geminiModel = "gemini-1.5-flash"

var geminiHTTP = &http.Client{Timeout: 45 * time.Second}

const tutorSystemPrompt = `You are a helpful DSA tutor for a competitive programming platform.
Only answer questions related to data structures, algorithms, and the current problem.
Give hints before full solutions, explain complexity, and keep answers concise.
If asked anything unrelated to programming, politely decline.`

// ChatMessage is one turn of the assistant conversation, role "user" or "model".
type ChatMessage struct {
	Role  string `json:"role"`
	Parts []struct {
		Text string `json:"text"`
	} `json:"parts"`
}

// ProblemContext grounds the tutor in the problem the user is working on.
type ProblemContext struct {
	Title       string
	Description string
	TestCases   string
	StartCode   string
}

type geminiRequest struct {
	SystemInstruction struct {
		Parts []map[string]string `json:"parts"`
	} `json:"system_instruction"`
	Contents []ChatMessage `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateTutorReply forwards the conversation to Gemini with the DSA-tutor
// system prompt plus the current problem statement, and returns the model's
// reply text.
func GenerateTutorReply(ctx context.Context, messages []ChatMessage, pc ProblemContext) (string, error) {
	cfg := config.AppConfig
	if cfg.GeminiAPIKey == "" {
		return "", fmt.Errorf("gemini: API key not configured")
	}

	prompt := tutorSystemPrompt
	if pc.Title != "" {
		prompt += fmt.Sprintf("\n\nCurrent problem: %s\n%s\nTest cases: %s\nStarter code: %s",
			pc.Title, pc.Description, pc.TestCases, pc.StartCode)
	}

	reqBody := geminiRequest{Contents: messages}
	reqBody.SystemInstruction.Parts = []map[string]string{{"text": prompt}}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		geminiModel, cfg.GeminiAPIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := geminiHTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: request failed with status %d", resp.StatusCode)
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}

	logger.Info().Dur("latency", time.Since(start)).Msg("Generated tutor reply via Gemini")
	return result.Candidates[0].Content.Parts[0].Text, nil
}
