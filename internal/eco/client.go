package eco

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const requestTimeout = 20 * time.Second

// Client talks to the external eco-claim classifier. A client with an empty
// base URL runs fully offline on the keyword fallback.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// NewClientFromEnv builds the client from ECO_VERIFIER_URL and
// ECO_VERIFIER_KEY. The process env is already populated at startup.
func NewClientFromEnv() *Client {
	return NewClient(os.Getenv("ECO_VERIFIER_URL"), os.Getenv("ECO_VERIFIER_KEY"))
}

// Verify classifies an eco claim. With no remote configured the deterministic
// keyword classifier decides. When a remote IS configured, its failures —
// transport errors, bad status, unparseable body, out-of-range confidence —
// come back as errors for the caller to surface; a broken classifier must
// never be silently replaced by a local guess.
func (cl *Client) Verify(ctx context.Context, req VerifyRequest) (Verdict, error) {
	if cl.baseURL == "" {
		return EvaluateClaim(req), nil
	}

	return cl.verifyRemote(ctx, req)
}

func (cl *Client) verifyRemote(ctx context.Context, req VerifyRequest) (Verdict, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Verdict{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.baseURL+"/v1/verify", bytes.NewReader(body))
	if err != nil {
		return Verdict{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if cl.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+cl.apiKey)
	}

	resp, err := cl.httpClient.Do(httpReq)
	if err != nil {
		return Verdict{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Verdict{}, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var verdict Verdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return Verdict{}, err
	}

	if verdict.Confidence < 0 || verdict.Confidence > 1 {
		return Verdict{}, fmt.Errorf("classifier returned confidence out of range: %f", verdict.Confidence)
	}

	return verdict, nil
}
