package agent

import (
	"context"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

// --- Mocks ---

type mockRecommendationSource struct {
	result  domain.RecommendationResult
	profile domain.UserProfile
	err     error
	calls   int
	query   string
}

func (m *mockRecommendationSource) Recommend(_ context.Context, _, query string) (domain.RecommendationResult, error) {
	m.calls++
	m.query = query
	return m.result, m.err
}

func (m *mockRecommendationSource) UserProfile(_ context.Context, _ string) (domain.UserProfile, error) {
	m.calls++
	return m.profile, m.err
}

func (m *mockRecommendationSource) SaveProfile(_ context.Context, p domain.UserProfile) (domain.UserProfile, error) {
	m.calls++
	if m.err != nil {
		return domain.UserProfile{}, m.err
	}
	m.profile = p
	return p, nil
}

type mockVectorSource struct {
	hits   []domain.SearchHit
	added  int
	err    error
	calls  int
	n      int
	panics bool
}

func (m *mockVectorSource) SearchSimilar(_ context.Context, _ string, n int) ([]domain.SearchHit, error) {
	m.calls++
	m.n = n
	if m.panics {
		panic("index corrupted")
	}
	return m.hits, m.err
}

func (m *mockVectorSource) AddProducts(_ context.Context, products []domain.Product) (int, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return len(products), nil
}

type mockFeedbackSource struct {
	rating    int
	stats     domain.FeedbackStats
	userStats domain.UserFeedbackStats
	global    domain.GlobalFeedbackStats
	lowRated  []string
	feedback  domain.Feedback
	err       error
	calls     int
	threshold int
}

func (m *mockFeedbackSource) ExtractRating(string) int { m.calls++; return m.rating }

func (m *mockFeedbackSource) Submit(_ context.Context, _, _, _ string) (domain.Feedback, error) {
	m.calls++
	return m.feedback, m.err
}

func (m *mockFeedbackSource) ProductStats(_ context.Context, _ string) (domain.FeedbackStats, error) {
	m.calls++
	return m.stats, m.err
}

func (m *mockFeedbackSource) UserStats(_ context.Context, _ string) (domain.UserFeedbackStats, error) {
	m.calls++
	return m.userStats, m.err
}

func (m *mockFeedbackSource) LowRatedProducts(_ context.Context, _ string, threshold int) ([]string, error) {
	m.calls++
	m.threshold = threshold
	return m.lowRated, m.err
}

func (m *mockFeedbackSource) GlobalStats(_ context.Context) (domain.GlobalFeedbackStats, error) {
	m.calls++
	return m.global, m.err
}

type mockTextSource struct {
	text   string
	err    error
	prompt string
	calls  int
}

func (m *mockTextSource) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.text, m.err
}

func (m *mockTextSource) GenerateRecommendation(
	_ context.Context, _ domain.UserProfile, _ []domain.SearchHit, _ map[string]domain.FeedbackStats,
) (string, error) {
	m.calls++
	return m.text, m.err
}
