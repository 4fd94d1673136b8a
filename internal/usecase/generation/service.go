package generation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

// maxPromptProducts bounds the product list rendered into a recommendation prompt.
const maxPromptProducts = 10

// Service turns prompts into text through the configured provider.
type Service struct {
	gen     domain.TextGenerator
	timeout time.Duration
}

// New creates a generation service.
func New(gen domain.TextGenerator) *Service {
	return &Service{gen: gen}
}

// WithTimeout bounds every provider call; d <= 0 disables the bound.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// Generate returns the provider's answer to prompt, trimmed.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is required: %w", domain.ErrInvalidInput)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}

// GenerateRecommendation writes personalized recommendation text for a shopper.
// stats is keyed by product id and may be nil.
func (s *Service) GenerateRecommendation(
	ctx context.Context,
	profile domain.UserProfile,
	products []domain.SearchHit,
	stats map[string]domain.FeedbackStats,
) (string, error) {
	return s.Generate(ctx, RecommendationPrompt(profile, products, stats))
}

// RecommendationPrompt renders the recommendation prompt template.
func RecommendationPrompt(
	profile domain.UserProfile, products []domain.SearchHit, stats map[string]domain.FeedbackStats,
) string {
	var b strings.Builder

	b.WriteString("You are a shopping assistant for an online store.\n\n")
	b.WriteString("Customer profile:\n")
	fmt.Fprintf(&b, "- ID: %s\n", profile.ID)
	if profile.Name != "" {
		fmt.Fprintf(&b, "- Name: %s\n", profile.Name)
	}
	fmt.Fprintf(&b, "- Interests: %s\n", orNone(strings.Join(profile.Interests, ", ")))
	fmt.Fprintf(&b, "- Previously purchased: %s\n", orNone(strings.Join(profile.PurchasedProductIDs, ", ")))

	b.WriteString("\nCandidate products:\n")
	if len(products) == 0 {
		b.WriteString("- none matched\n")
	}
	for i, p := range products {
		if i == maxPromptProducts {
			break
		}
		fmt.Fprintf(&b, "- %s: %s", p.ID, p.Document)
		if st, ok := stats[p.ID]; ok && st.TotalFeedbacks > 0 {
			fmt.Fprintf(&b, " (rating %s from %d reviews)", formatRating(st.AverageRating), st.TotalFeedbacks)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nRecommend the most suitable products for this customer and briefly explain why ")
	b.WriteString("each one fits. Only mention products from the candidate list.")
	return b.String()
}

// FormatRating renders an optional average rating, "N/A" when absent.
func FormatRating(avg *float64) string {
	return formatRating(avg)
}

func formatRating(avg *float64) string {
	if avg == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*avg, 'f', -1, 64)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
