package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kidwise/api/internal/handlers"
	"github.com/kidwise/api/internal/models"
	"github.com/spf13/cobra"
)

// smokeClient drives a running server through one parent's session.
type smokeClient struct {
	base   string
	client *http.Client
	out    io.Writer
}

func newSmokeCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Exercise a running server end to end with a throwaway account",
		RunE: func(cmd *cobra.Command, args []string) error {
			jar, err := cookiejar.New(nil)
			if err != nil {
				return err
			}
			c := &smokeClient{
				base:   strings.TrimRight(baseURL, "/"),
				client: &http.Client{Jar: jar, Timeout: 2 * time.Minute},
				out:    cmd.OutOrStdout(),
			}
			return c.run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "server to exercise")
	return cmd
}

func (s *smokeClient) run(ctx context.Context) error {
	email := fmt.Sprintf("smoke-%s@example.com", uuid.NewString()[:8])

	var auth handlers.AuthResponse
	if err := s.call(ctx, http.MethodPost, "/api/auth/signup", map[string]any{
		"email": email, "password": "smoke-password", "name": "Smoke Test",
	}, http.StatusCreated, &auth); err != nil {
		return err
	}

	var child models.Child
	if err := s.call(ctx, http.MethodPost, "/api/children", map[string]any{
		"name": "Robin", "ageGroup": "6-8",
	}, http.StatusCreated, &child); err != nil {
		return err
	}

	var answer handlers.AnswerResponse
	if err := s.call(ctx, http.MethodPost, "/api/question/ask", map[string]any{
		"question":     "My child gets upset when screen time ends. What can I do?",
		"childId":      child.ID.String(),
		"childEmotion": "frustrated",
	}, http.StatusOK, &answer); err != nil {
		return err
	}
	if answer.ID == nil {
		return fmt.Errorf("ask: response carried no session id")
	}
	fmt.Fprintf(s.out, "      safety flag: %s\n", answer.Safety.Flag)

	sessionPath := "/api/question/" + answer.ID.String()
	if err := s.call(ctx, http.MethodPost, sessionPath+"/follow-up", map[string]any{
		"question": "What if they still argue after the timer?",
	}, http.StatusOK, &handlers.AnswerResponse{}); err != nil {
		return err
	}
	if err := s.call(ctx, http.MethodPost, sessionPath+"/feedback", map[string]any{
		"helpful": true, "rating": 5,
	}, http.StatusOK, nil); err != nil {
		return err
	}

	var history handlers.HistoryResponse
	if err := s.call(ctx, http.MethodGet, "/api/question/history?limit=5", nil, http.StatusOK, &history); err != nil {
		return err
	}
	if history.Total < 1 {
		return fmt.Errorf("history: expected at least one session, got %d", history.Total)
	}

	var plan handlers.GeneratePlanResponse
	if err := s.call(ctx, http.MethodPost, "/api/plans/generate", map[string]any{
		"type": "bedtime_script", "ageGroup": "6-8", "goal": "Lights out by 8pm without stalling", "saveTemplate": true,
	}, http.StatusOK, &plan); err != nil {
		return err
	}
	if plan.TemplateID != nil {
		if err := s.call(ctx, http.MethodDelete, "/api/plans/templates/"+plan.TemplateID.String(), nil, http.StatusOK, nil); err != nil {
			return err
		}
	}

	if err := s.call(ctx, http.MethodGet, "/api/usage?days=1", nil, http.StatusOK, nil); err != nil {
		return err
	}
	if err := s.call(ctx, http.MethodDelete, "/api/children/"+child.ID.String(), nil, http.StatusOK, nil); err != nil {
		return err
	}
	return s.call(ctx, http.MethodPost, "/api/auth/logout", nil, http.StatusOK, nil)
}

func (s *smokeClient) call(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: status %d, body %s", method, path, resp.StatusCode, raw)
	}
	fmt.Fprintf(s.out, "ok    %-6s %-40s %s\n", method, path, time.Since(start).Round(time.Millisecond))

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
