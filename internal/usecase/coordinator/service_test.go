package coordinator

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/kailas-cloud/shopagent/internal/agent"
	"github.com/kailas-cloud/shopagent/internal/domain"
)

// --- Mocks ---

type mockRecommender struct {
	env   agent.Envelope[domain.RecommendationResult]
	limit int
	calls int
}

func (m *mockRecommender) Name() string { return "rec" }

func (m *mockRecommender) Recommend(_ context.Context, _, _ string, limit int) agent.Envelope[domain.RecommendationResult] {
	m.calls++
	m.limit = limit
	return m.env
}

type mockSearcher struct {
	env   agent.Envelope[[]domain.SearchCandidate]
	query string
	n     int
	calls int
}

func (m *mockSearcher) Name() string { return "vec" }

func (m *mockSearcher) SearchSimilar(_ context.Context, query string, n int) agent.Envelope[[]domain.SearchCandidate] {
	m.calls++
	m.query, m.n = query, n
	return m.env
}

type mockStats struct {
	env agent.Envelope[domain.FeedbackStats]
}

func (m *mockStats) Name() string { return "fb" }

func (m *mockStats) ProductStats(_ context.Context, _ string) agent.Envelope[domain.FeedbackStats] {
	return m.env
}

type mockGenerator struct {
	env    agent.Envelope[string]
	prompt string
	calls  int
}

func (m *mockGenerator) Name() string { return "ai" }

func (m *mockGenerator) GenerateContent(_ context.Context, prompt string) agent.Envelope[string] {
	m.calls++
	m.prompt = prompt
	return m.env
}

func recOK(ids ...string) *mockRecommender {
	return &mockRecommender{env: agent.Envelope[domain.RecommendationResult]{
		Agent: "rec",
		Data:  domain.RecommendationResult{Text: "text", Products: ids, UserProfile: domain.UserProfile{ID: "u1"}},
	}}
}

func vecOK(ids ...string) *mockSearcher {
	c := make([]domain.SearchCandidate, len(ids))
	for i, id := range ids {
		c[i] = domain.SearchCandidate{ID: id, Relevance: 1}
	}
	return &mockSearcher{env: agent.Envelope[[]domain.SearchCandidate]{Agent: "vec", Data: c}}
}

func newService(r Recommender, s SimilarSearcher) *Service {
	return New(r, s, &mockStats{}, &mockGenerator{}, nil)
}

// --- SmartRecommendations ---

func TestSmartRecommendations_Merge(t *testing.T) {
	rec, vec := recOK("a", "b"), vecOK("b", "c")

	res := newService(rec, vec).SmartRecommendations(context.Background(), "u1", "kettle", 5)
	if res.Status != StatusSuccess {
		t.Fatalf("status = %q (%s)", res.Status, res.Message)
	}
	if !slices.Equal(res.Products, []string{"a", "b", "c"}) {
		t.Errorf("products = %v", res.Products)
	}
	if !slices.Equal(res.AgentsUsed, []string{"rec", "vec"}) {
		t.Errorf("agents = %v", res.AgentsUsed)
	}
	if res.Query == nil || *res.Query != "kettle" || vec.query != "kettle" || vec.n != 5 {
		t.Errorf("unexpected query handling: %v / %q n=%d", res.Query, vec.query, vec.n)
	}
	if len(res.Candidates) != 2 || res.Candidates[0].ID != "b" || res.Candidates[1].ID != "c" {
		t.Errorf("candidates = %+v", res.Candidates)
	}
	if res.RecommendationText != "text" || res.UserProfile == nil || res.UserProfile.ID != "u1" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestSmartRecommendations_PrimaryFailure(t *testing.T) {
	rec := &mockRecommender{env: agent.Envelope[domain.RecommendationResult]{
		Agent: "rec",
		Err:   errors.New("failed to generate recommendations: boom"),
	}}
	vec := vecOK("x")

	res := newService(rec, vec).SmartRecommendations(context.Background(), "u1", "kettle", 5)
	if res.Status != StatusError || len(res.Products) != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	if !strings.Contains(res.Message, "boom") {
		t.Errorf("message = %q", res.Message)
	}
	if vec.calls != 0 {
		t.Error("vector source must not be called after primary failure")
	}
	if res.InvalidInput() {
		t.Error("upstream failure is not invalid input")
	}
}

func TestSmartRecommendations_InvalidInput(t *testing.T) {
	rec := &mockRecommender{env: agent.Envelope[domain.RecommendationResult]{Err: domain.ErrInvalidInput}}

	res := newService(rec, vecOK()).SmartRecommendations(context.Background(), "", "", 5)
	if res.Status != StatusError || !res.InvalidInput() {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestSmartRecommendations_VectorFailure(t *testing.T) {
	vec := &mockSearcher{env: agent.Envelope[[]domain.SearchCandidate]{Agent: "vec", Err: domain.ErrServiceFailure}}

	res := newService(recOK("a", "b"), vec).SmartRecommendations(context.Background(), "u1", "kettle", 5)
	if res.Status != StatusSuccess {
		t.Fatalf("vector failure must not fail the query: %+v", res)
	}
	if !slices.Equal(res.Products, []string{"a", "b"}) || len(res.Candidates) != 0 {
		t.Errorf("expected primary products only, got %v / %v", res.Products, res.Candidates)
	}
	if !slices.Equal(res.AgentsUsed, []string{"rec", "vec"}) {
		t.Errorf("agents = %v", res.AgentsUsed)
	}
}

func TestSmartRecommendations_NoQuery(t *testing.T) {
	vec := vecOK("c")

	res := newService(recOK("a"), vec).SmartRecommendations(context.Background(), "u1", "  ", 5)
	if res.Query != nil || vec.calls != 0 {
		t.Errorf("blank query must skip vector search: %+v", res)
	}
	if !slices.Equal(res.AgentsUsed, []string{"rec"}) {
		t.Errorf("agents = %v", res.AgentsUsed)
	}
}

func TestSmartRecommendations_LimitNormalization(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	baseline := newService(recOK(ids...), vecOK("x", "y")).SmartRecommendations(context.Background(), "u1", "q", 5)

	for _, limit := range []int{0, -3, 21, 1000} {
		rec := recOK(ids...)
		vec := vecOK("x", "y")
		res := newService(rec, vec).SmartRecommendations(context.Background(), "u1", "q", limit)
		if rec.limit != 5 || vec.n != 5 {
			t.Errorf("limit %d: sources saw %d/%d", limit, rec.limit, vec.n)
		}
		if !slices.Equal(res.Products, baseline.Products) {
			t.Errorf("limit %d: products %v differ from limit=5 %v", limit, res.Products, baseline.Products)
		}
	}

	res := newService(recOK(ids...), vecOK("x")).SmartRecommendations(context.Background(), "u1", "q", 3)
	if !slices.Equal(res.Products, []string{"a", "b", "c"}) {
		t.Errorf("limit 3: %v", res.Products)
	}
}

// --- AnalyzeProductFeedback ---

func TestAnalyzeProductFeedback(t *testing.T) {
	avg := 4.25
	stats := &mockStats{env: agent.Envelope[domain.FeedbackStats]{
		Data: domain.FeedbackStats{AverageRating: &avg, TotalFeedbacks: 8},
	}}
	gen := &mockGenerator{env: agent.Envelope[string]{Data: "Loved by tea drinkers."}}

	res := New(recOK(), vecOK(), stats, gen, nil).AnalyzeProductFeedback(context.Background(), "p1")
	if res.Status != StatusSuccess || res.AIInsights != "Loved by tea drinkers." || res.ProductID != "p1" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.FeedbackStatistics.TotalFeedbacks != 8 {
		t.Errorf("stats = %+v", res.FeedbackStatistics)
	}
	if !slices.Equal(res.AgentsUsed, []string{"fb", "ai"}) {
		t.Errorf("agents = %v", res.AgentsUsed)
	}
	for _, want := range []string{"Product ID: p1", "- Average Rating: 4.25", "- Total Reviews: 8"} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, gen.prompt)
		}
	}
}

func TestAnalyzeProductFeedback_NoRating(t *testing.T) {
	gen := &mockGenerator{env: agent.Envelope[string]{Data: "ok"}}

	New(recOK(), vecOK(), &mockStats{}, gen, nil).AnalyzeProductFeedback(context.Background(), "p2")
	if !strings.Contains(gen.prompt, "- Average Rating: N/A") || !strings.Contains(gen.prompt, "- Total Reviews: 0") {
		t.Errorf("unexpected prompt:\n%s", gen.prompt)
	}
}

func TestAnalyzeProductFeedback_GeneratorFailure(t *testing.T) {
	gen := &mockGenerator{env: agent.Envelope[string]{
		Err:  domain.ErrServiceFailure,
		Data: agent.GenerationFallback,
	}}

	res := New(recOK(), vecOK(), &mockStats{}, gen, nil).AnalyzeProductFeedback(context.Background(), "p1")
	if res.Status != StatusSuccess || res.AIInsights != agent.GenerationFallback {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestAnalyzeProductFeedback_StatsFailure(t *testing.T) {
	stats := &mockStats{env: agent.Envelope[domain.FeedbackStats]{Err: errors.New("failed to get product feedback stats")}}
	gen := &mockGenerator{}

	res := New(recOK(), vecOK(), stats, gen, nil).AnalyzeProductFeedback(context.Background(), "p1")
	if res.Status != StatusError || res.ProductID != "p1" || res.Message == "" {
		t.Errorf("unexpected result %+v", res)
	}
	if gen.calls != 0 {
		t.Error("generator must not be called when stats fail")
	}
}

func TestAnalysisPrompt_Shape(t *testing.T) {
	p := AnalysisPrompt("p9", domain.FeedbackStats{})
	if !strings.HasPrefix(p, "Analyze this product feedback statistics:") {
		t.Errorf("unexpected prompt start %q", p)
	}
	if !strings.Contains(p, "3. Suggestions for the types of customers this product might be good for") {
		t.Error("missing closing instruction")
	}
}
