package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// SDKClient calls generateContent through the Go SDK
type SDKClient struct {
	client  *genai.Client
	model   contentGenerator
	timeout time.Duration
}

// SDKOption configures an SDKClient
type SDKOption func(*SDKClient)

// WithRequestTimeout bounds each generateContent call; zero means no bound
func WithRequestTimeout(d time.Duration) SDKOption {
	return func(c *SDKClient) {
		c.timeout = d
	}
}

// NewSDKClient opens an SDK client for the given model with cfg applied.
// The SDK pins its own endpoint and API version.
func NewSDKClient(ctx context.Context, apiKey, model string, cfg GenerationConfig, opts ...SDKOption) (*SDKClient, error) {
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &APIError{Message: "failed to create Gemini client"}
	}

	gm := client.GenerativeModel(model)
	applyConfig(gm, cfg)

	c := &SDKClient{client: client, model: gm}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func applyConfig(gm *genai.GenerativeModel, cfg GenerationConfig) {
	gm.SetTemperature(cfg.Temperature)
	gm.SetMaxOutputTokens(cfg.MaxOutputTokens)

	settings := cfg.SafetySettings()
	gm.SafetySettings = make([]*genai.SafetySetting, 0, len(settings))
	for _, s := range settings {
		gm.SafetySettings = append(gm.SafetySettings, &genai.SafetySetting{
			Category:  sdkCategory(s.Category),
			Threshold: sdkThreshold(s.Threshold),
		})
	}
}

// Close releases the underlying connection
func (c *SDKClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// GenerateContent sends the prompt as a single text part
func (c *SDKClient) GenerateContent(ctx context.Context, prompt string) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return blockedResponse(blocked), nil
		}
		return nil, sdkError(err)
	}
	return fromSDK(resp), nil
}

func fromSDK(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}
	if resp == nil {
		return out
	}
	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		c := Candidate{FinishReason: cand.FinishReason.String()}
		if cand.Content != nil {
			c.Content = &Content{Role: cand.Content.Role}
			for _, p := range cand.Content.Parts {
				if t, ok := p.(genai.Text); ok {
					c.Content.Parts = append(c.Content.Parts, Part{Text: string(t)})
				}
			}
		}
		out.Candidates = append(out.Candidates, c)
	}
	return out
}

// blockedResponse carries no text so callers fall back
func blockedResponse(b *genai.BlockedError) *Response {
	out := &Response{}
	if b.PromptFeedback != nil {
		out.PromptFeedback = &PromptFeedback{BlockReason: b.PromptFeedback.BlockReason.String()}
	}
	if b.Candidate != nil {
		out.Candidates = []Candidate{{FinishReason: b.Candidate.FinishReason.String()}}
	}
	return out
}

func sdkError(err error) *APIError {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status code %d", gerr.Code)
		}
		return &APIError{StatusCode: gerr.Code, Message: msg}
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.OK && st.Code() != codes.Unknown {
		return &APIError{StatusCode: httpStatus(st.Code()), Message: st.Message()}
	}

	return &APIError{Message: transportMessage(err)}
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func sdkCategory(c HarmCategory) genai.HarmCategory {
	switch c {
	case HarmCategoryHarassment:
		return genai.HarmCategoryHarassment
	case HarmCategoryHateSpeech:
		return genai.HarmCategoryHateSpeech
	case HarmCategorySexuallyExplicit:
		return genai.HarmCategorySexuallyExplicit
	case HarmCategoryDangerousContent:
		return genai.HarmCategoryDangerousContent
	default:
		return genai.HarmCategoryUnspecified
	}
}

func sdkThreshold(t HarmThreshold) genai.HarmBlockThreshold {
	switch t {
	case BlockNone:
		return genai.HarmBlockNone
	case BlockOnlyHigh:
		return genai.HarmBlockOnlyHigh
	case BlockMediumAndAbove:
		return genai.HarmBlockMediumAndAbove
	case BlockLowAndAbove:
		return genai.HarmBlockLowAndAbove
	default:
		return genai.HarmBlockUnspecified
	}
}
