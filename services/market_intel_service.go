package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/fenilmodi00/ipo-allotment-tracker/models"
	"github.com/fenilmodi00/ipo-allotment-tracker/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const marketIntelServiceName = "MarketIntelService"

// Error codes raised by the market intelligence path
const (
	ErrCodeMarketIntelDisabled      = "MARKET_INTEL_DISABLED"
	ErrCodeMarketIntelRequestFailed = "MARKET_INTEL_REQUEST_FAILED"
	ErrCodeMarketIntelDecodeFailed  = "MARKET_INTEL_DECODE_FAILED"
)

const (
	defaultNewsSource    = "Market News"
	defaultNewsTimestamp = "Just now"
	placeholderNewsURL   = "#"

	marketIntelMinimumRequestSpacing = 2 * time.Second
)

const discoverySystemInstruction = `
You are a specialized financial data assistant for the Indian Stock Market.
Your task is to fetch the most recent and active Mainboard and SME IPOs in India.
Focus on extracting:
1. Company Name
2. Registrar (Link Intime, KFintech, Bigshare, Skylinerta, Purva, Maashitla, Cameo, etc.)
3. Current Status (Open, Closed, Allotment Out, Listed)
4. Grey Market Premium (GMP) - Estimated listing gain per share or percentage.
5. Subscription figures (Overall x times).
6. Allotment Date (YYYY-MM-DD format if possible).

Accurate Registrar mapping is CRITICAL for this application.
`

const (
	discoveryPrompt = "Find the latest Indian IPOs from the last 2 weeks and upcoming next week. Include current GMP, Subscription status, and Registrar."
	newsPrompt      = "Perform a Google Search to find and return 5 specific, breaking news headlines from the last 24 hours regarding Indian Mainboard and SME IPOs, listing gains, or SEBI updates. Ensure news is current."
)

// MarketIntelligence is the optional AI-backed source of news and IPO discovery
type MarketIntelligence interface {
	Enabled() bool
	FetchMarketNews(ctx context.Context) ([]models.MarketFeedItem, error)
	DiscoverIPOs(ctx context.Context) ([]*models.IPORecord, error)
}

// ContentGenerator is the subset of the genai Models API the service relies on
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewMarketIntelService builds the AI-backed service. Without an API key it
// returns a disabled instance and no client is created.
func NewMarketIntelService(ctx context.Context, apiKey, model string) (MarketIntelligence, error) {
	if apiKey == "" {
		logrus.WithField("component", marketIntelServiceName).Info("No AI API key configured, market intelligence disabled")
		return DisabledMarketIntel{}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryConfiguration, ErrCodeMarketIntelRequestFailed,
			"Error initializing Gemini client", marketIntelServiceName, "NewMarketIntelService", false, err)
	}

	return NewGeminiMarketIntelService(client.Models, model), nil
}

// DisabledMarketIntel stands in when no credential is configured
type DisabledMarketIntel struct{}

func (DisabledMarketIntel) Enabled() bool { return false }

func (DisabledMarketIntel) FetchMarketNews(context.Context) ([]models.MarketFeedItem, error) {
	return nil, errMarketIntelDisabled("FetchMarketNews")
}

func (DisabledMarketIntel) DiscoverIPOs(context.Context) ([]*models.IPORecord, error) {
	return nil, errMarketIntelDisabled("DiscoverIPOs")
}

func errMarketIntelDisabled(operation string) error {
	return shared.NewServiceError(shared.ErrorCategoryConfiguration, ErrCodeMarketIntelDisabled,
		"AI market intelligence is not configured", marketIntelServiceName, operation, false, nil)
}

// GeminiMarketIntelService queries Gemini with Google Search grounding and structured output
type GeminiMarketIntelService struct {
	generator   ContentGenerator
	model       string
	rateLimiter *shared.HTTPRequestRateLimiter
	metrics     *shared.ServiceMetrics
}

// NewGeminiMarketIntelService wraps a content generator
func NewGeminiMarketIntelService(generator ContentGenerator, model string) *GeminiMarketIntelService {
	return &GeminiMarketIntelService{
		generator:   generator,
		model:       model,
		rateLimiter: shared.NewHTTPRequestRateLimiter(marketIntelMinimumRequestSpacing),
		metrics:     shared.NewServiceMetrics(marketIntelServiceName),
	}
}

func (s *GeminiMarketIntelService) Enabled() bool { return true }

// GetServiceMetrics exposes request metrics for the AI calls
func (s *GeminiMarketIntelService) GetServiceMetrics() *shared.ServiceMetrics {
	return s.metrics
}

type newsResponse struct {
	News []struct {
		Headline  string `json:"headline"`
		Source    string `json:"source"`
		Timestamp string `json:"timestamp"`
	} `json:"news"`
}

type discoveryResponse struct {
	IPOs []struct {
		Name          string `json:"name"`
		Registrar     string `json:"registrar"`
		Status        string `json:"status"`
		GMP           string `json:"gmp"`
		Subscription  string `json:"subscription"`
		AllotmentDate string `json:"allotmentDate"`
	} `json:"ipos"`
}

// FetchMarketNews returns the latest IPO headlines with best-effort source attribution
func (s *GeminiMarketIntelService) FetchMarketNews(ctx context.Context) ([]models.MarketFeedItem, error) {
	config := &genai.GenerateContentConfig{
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType: "application/json",
		ResponseSchema: objectSchema("news", map[string]*genai.Schema{
			"headline":  {Type: genai.TypeString},
			"source":    {Type: genai.TypeString},
			"timestamp": {Type: genai.TypeString},
		}),
	}

	response, err := s.generate(ctx, "FetchMarketNews", newsPrompt, config)
	if err != nil {
		return nil, err
	}

	var parsed newsResponse
	if text := response.Text(); text != "" {
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return nil, shared.NewServiceError(shared.ErrorCategoryProcessing, ErrCodeMarketIntelDecodeFailed,
				"Could not decode market news response", marketIntelServiceName, "FetchMarketNews", true, err)
		}
	}

	items := make([]models.MarketFeedItem, 0, len(parsed.News))
	for _, news := range parsed.News {
		items = append(items, models.MarketFeedItem{
			Headline:  news.Headline,
			Source:    valueOr(news.Source, defaultNewsSource),
			URL:       placeholderNewsURL,
			Timestamp: valueOr(news.Timestamp, defaultNewsTimestamp),
		})
	}

	return ApplyGroundingCitations(items, groundingChunks(response)), nil
}

// DiscoverIPOs asks the AI service for recent and upcoming IPOs. The result is
// supplementary and never replaces the sheet snapshot.
func (s *GeminiMarketIntelService) DiscoverIPOs(ctx context.Context) ([]*models.IPORecord, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: discoverySystemInstruction}}},
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema: objectSchema("ipos", map[string]*genai.Schema{
			"name":          {Type: genai.TypeString},
			"registrar":     {Type: genai.TypeString},
			"status":        {Type: genai.TypeString},
			"gmp":           {Type: genai.TypeString},
			"subscription":  {Type: genai.TypeString},
			"allotmentDate": {Type: genai.TypeString},
		}),
	}

	response, err := s.generate(ctx, "DiscoverIPOs", discoveryPrompt, config)
	if err != nil {
		return nil, err
	}

	var parsed discoveryResponse
	if text := response.Text(); text != "" {
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return nil, shared.NewServiceError(shared.ErrorCategoryProcessing, ErrCodeMarketIntelDecodeFailed,
				"Could not decode IPO discovery response", marketIntelServiceName, "DiscoverIPOs", true, err)
		}
	}

	records := make([]*models.IPORecord, 0, len(parsed.IPOs))
	for _, ipo := range parsed.IPOs {
		name := strings.TrimSpace(ipo.Name)
		if name == "" {
			continue
		}
		records = append(records, &models.IPORecord{
			ID:            uuid.NewString(),
			Name:          name,
			Registrar:     valueOr(ipo.Registrar, "Unknown"),
			Status:        NormalizeStatus(ipo.Status),
			GMP:           valueOr(ipo.GMP, models.NotAvailable),
			Subscription:  valueOr(ipo.Subscription, models.NotAvailable),
			AllotmentDate: ipo.AllotmentDate,
			Source:        models.SourceAI,
		})
	}
	return records, nil
}

func (s *GeminiMarketIntelService) generate(ctx context.Context, operation, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryNetwork, ErrCodeMarketIntelRequestFailed,
			"AI request cancelled", marketIntelServiceName, operation, true, err)
	}

	start := time.Now()
	response, err := s.generator.GenerateContent(ctx, s.model, genai.Text(prompt), config)
	s.metrics.RecordRequest(err == nil, time.Since(start))
	s.metrics.SetCustomMetric("requests_sent", s.rateLimiter.GetRequestCount())
	if err != nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryNetwork, ErrCodeMarketIntelRequestFailed,
			"AI service request failed", marketIntelServiceName, operation, true, err)
	}
	return response, nil
}

// ApplyGroundingCitations attributes items to citations positionally: item i takes
// citation i mod N. This is best-effort attribution, not a precise mapping.
func ApplyGroundingCitations(items []models.MarketFeedItem, chunks []*genai.GroundingChunk) []models.MarketFeedItem {
	if len(chunks) == 0 {
		return items
	}
	for i := range items {
		chunk := chunks[i%len(chunks)]
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		items[i].URL = chunk.Web.URI
		if chunk.Web.Title != "" {
			items[i].Source = chunk.Web.Title
		}
	}
	return items
}

func groundingChunks(response *genai.GenerateContentResponse) []*genai.GroundingChunk {
	if len(response.Candidates) == 0 || response.Candidates[0] == nil || response.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	return response.Candidates[0].GroundingMetadata.GroundingChunks
}

func objectSchema(listField string, itemProperties map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			listField: {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: itemProperties,
				},
			},
		},
	}
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// IsMarketIntelDisabled reports whether err came from a disabled market intelligence instance
func IsMarketIntelDisabled(err error) bool {
	return shared.HasErrorCode(err, ErrCodeMarketIntelDisabled)
}
