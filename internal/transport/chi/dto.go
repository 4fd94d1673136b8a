package chi

import (
	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/usecase/coordinator"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest    = "bad_request"
	codeValidation    = "validation_failed"
	codeUnauthorized  = "unauthorized"
	codeNotFound      = "not_found"
	codeUpstreamError = "upstream_error"
	codeInternalError = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Agent   string `json:"agent,omitempty"`
}

type smartRecommendationsResponse struct {
	Status             string                   `json:"status"`
	UserID             string                   `json:"user_id"`
	Query              *string                  `json:"query"`
	RecommendationText string                   `json:"recommendations_text"`
	Products           []string                 `json:"products"`
	Candidates         []domain.SearchCandidate `json:"candidates,omitempty"`
	UserProfile        *domain.UserProfile      `json:"user_profile,omitempty"`
	AgentsUsed         []string                 `json:"agents_used"`
}

// smartRecommendationsError is the failure shape of GET /recommendations.
// recommendations is always present and empty.
type smartRecommendationsError struct {
	Status          string   `json:"status"`
	Message         string   `json:"message"`
	UserID          string   `json:"user_id"`
	Recommendations []string `json:"recommendations"`
}

func smartRecommendationsToDTO(r coordinator.SmartRecommendations) any {
	if r.Status == coordinator.StatusError {
		return smartRecommendationsError{
			Status:          string(r.Status),
			Message:         clientMessage(r.Err),
			UserID:          r.UserID,
			Recommendations: []string{},
		}
	}
	products := r.Products
	if products == nil {
		products = []string{}
	}
	agents := r.AgentsUsed
	if agents == nil {
		agents = []string{}
	}
	return smartRecommendationsResponse{
		Status:             string(r.Status),
		UserID:             r.UserID,
		Query:              r.Query,
		RecommendationText: r.RecommendationText,
		Products:           products,
		Candidates:         r.Candidates,
		UserProfile:        r.UserProfile,
		AgentsUsed:         agents,
	}
}

type feedbackAnalysisResponse struct {
	Status             string                `json:"status"`
	Message            string                `json:"message,omitempty"`
	ProductID          string                `json:"product_id"`
	FeedbackStatistics *domain.FeedbackStats `json:"feedback_statistics,omitempty"`
	AIInsights         string                `json:"ai_insights,omitempty"`
	AgentsUsed         []string              `json:"agents_used,omitempty"`
}

func feedbackAnalysisToDTO(r coordinator.FeedbackAnalysis) feedbackAnalysisResponse {
	resp := feedbackAnalysisResponse{
		Status:    string(r.Status),
		ProductID: r.ProductID,
	}
	if r.Status == coordinator.StatusError {
		resp.Message = clientMessage(r.Err)
	}
	if r.Status == coordinator.StatusSuccess {
		stats := r.FeedbackStatistics
		resp.FeedbackStatistics = &stats
		resp.AIInsights = r.AIInsights
		resp.AgentsUsed = r.AgentsUsed
	}
	return resp
}

type agentResponse struct {
	Agent string `json:"agent"`
	Data  any    `json:"data"`
}

type feedbackRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type ratingRequest struct {
	Text string `json:"text"`
}

type profileRequest struct {
	Name                string            `json:"name"`
	Interests           []string          `json:"interests"`
	PurchasedProductIDs []string          `json:"purchased_product_ids"`
	Attributes          map[string]string `json:"attributes"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}
