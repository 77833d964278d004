package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"underwriting-engine/internal/config"
	"underwriting-engine/internal/models"
	"underwriting-engine/internal/resilience"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// AgentCallFailed reports a stage's call to the LLM vendor failing outright, which is terminal
// for the owning workflow (see DESIGN.md Open Question on agent-failure handling).
type AgentCallFailed struct {
	Stage models.Stage
	Cause error
}

func (e *AgentCallFailed) Error() string {
	return fmt.Sprintf("agent call failed at stage %s: %v", e.Stage, e.Cause)
}

func (e *AgentCallFailed) Unwrap() error { return e.Cause }

// Runner is the Agent Runner (component D): a blocking call from a system prompt plus a
// rendered case context to raw response text. Interface so orchestrator tests can substitute a
// table-driven fake keyed by stage.
type Runner interface {
	Run(ctx context.Context, stage models.Stage, systemPrompt, userContext string) (string, error)
}

// HTTPRunner calls an OpenAI-compatible chat completion endpoint, guarded by a circuit breaker
// shared across all stages (one vendor, one breaker).
type HTTPRunner struct {
	cfg    *config.Config
	client *http.Client
	cb     *gobreaker.CircuitBreaker
}

func NewHTTPRunner(cfg *config.Config) *HTTPRunner {
	return &HTTPRunner{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.LLMTimeoutSecs) * time.Second,
		},
		cb: resilience.NewCircuitBreaker("LLM-Vendor"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// Run performs one blocking chat-completion call. Temperature is fixed at 0.1 (deterministic,
// near-greedy) and max tokens at 4000 per the vendor configuration surface.
func (r *HTTPRunner) Run(ctx context.Context, stage models.Stage, systemPrompt, userContext string) (string, error) {
	payload := chatRequest{
		Model: r.cfg.LLMModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContext},
		},
		Temperature: 0.1,
		MaxTokens:   4000,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &AgentCallFailed{Stage: stage, Cause: err}
	}

	result, err := r.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.LLMEndpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Correlation-ID", uuid.NewString())
		if r.cfg.LLMBearerToken != "" {
			req.Header.Set("Authorization", "Bearer "+r.cfg.LLMBearerToken)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			raw, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("LLM vendor returned status %d: %s", resp.StatusCode, string(raw))
		}

		var decoded chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, err
		}
		if len(decoded.Choices) == 0 {
			return nil, fmt.Errorf("LLM vendor returned no choices")
		}
		return decoded.Choices[0].Message.Content, nil
	})

	if err != nil {
		log.Printf("❌ Agent call failed at stage %s: %v", stage, err)
		return "", &AgentCallFailed{Stage: stage, Cause: err}
	}

	return result.(string), nil
}
