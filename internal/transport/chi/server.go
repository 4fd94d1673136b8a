package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/agent"
	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/logger"
	"github.com/kailas-cloud/shopagent/internal/usecase/coordinator"
	healthuc "github.com/kailas-cloud/shopagent/internal/usecase/health"
	"github.com/kailas-cloud/shopagent/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, agentName string) bool

// Server serves the shop agent HTTP API.
type Server struct {
	coordinator   Coordinator
	catalog       Catalog
	feedback      Feedback
	profiles      Profiles
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	coord Coordinator,
	catalog Catalog,
	feedback Feedback,
	profiles Profiles,
	health HealthChecker,
	l *zap.Logger,
) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	s := &Server{
		coordinator: coord,
		catalog:     catalog,
		feedback:    feedback,
		profiles:    profiles,
		health:      health,
		logger:      l,
	}
	// Order matters: an invalid input reported by a source is still the caller's fault.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidation),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrServiceFailure, http.StatusBadGateway, codeUpstreamError),
		sentinelHandler(domain.ErrProviderError, http.StatusBadGateway, codeUpstreamError),
	}
	return s
}

// Mount registers all API routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Get("/recommendations", s.SmartRecommendations)
	r.Get("/search", s.SearchProducts)

	r.Post("/products", s.AddProducts)
	r.Get("/products/{id}/analysis", s.AnalyzeProduct)
	r.Get("/products/{id}/feedback", s.ProductFeedbackStats)
	r.Post("/products/{id}/feedback", s.SubmitFeedback)

	r.Get("/feedback/stats", s.GlobalFeedbackStats)
	r.Post("/feedback/rating", s.ExtractRating)

	r.Get("/users/{id}/feedback", s.UserFeedbackStats)
	r.Get("/users/{id}/low-rated", s.LowRatedProducts)
	r.Get("/users/{id}/profile", s.GetProfile)
	r.Put("/users/{id}/profile", s.PutProfile)
}

// SmartRecommendations handles GET /recommendations.
func (s *Server) SmartRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res := s.coordinator.SmartRecommendations(r.Context(), q.Get("user_id"), q.Get("query"), queryInt(r, "limit"))

	status := http.StatusOK
	if res.Status == coordinator.StatusError {
		status = http.StatusBadGateway
		if res.InvalidInput() {
			status = http.StatusBadRequest
		}
		logger.FromContextOr(r.Context(), s.logger).Warn("smart recommendations failed", zap.Error(res.Err))
	}
	writeJSON(w, status, smartRecommendationsToDTO(res))
}

// AnalyzeProduct handles GET /products/{id}/analysis.
func (s *Server) AnalyzeProduct(w http.ResponseWriter, r *http.Request) {
	res := s.coordinator.AnalyzeProductFeedback(r.Context(), chi.URLParam(r, "id"))

	status := http.StatusOK
	if res.Status == coordinator.StatusError {
		status = http.StatusBadGateway
		if res.InvalidInput() {
			status = http.StatusBadRequest
		}
		logger.FromContextOr(r.Context(), s.logger).Warn("feedback analysis failed", zap.Error(res.Err))
	}
	writeJSON(w, status, feedbackAnalysisToDTO(res))
}

// SearchProducts handles GET /search.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	env := s.catalog.SearchSimilar(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit"))
	writeEnvelope(s, w, r, http.StatusOK, env)
}

// AddProducts handles POST /products.
func (s *Server) AddProducts(w http.ResponseWriter, r *http.Request) {
	var products []domain.Product
	if err := json.NewDecoder(r.Body).Decode(&products); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	writeEnvelope(s, w, r, http.StatusCreated, s.catalog.AddProducts(r.Context(), products))
}

// ProductFeedbackStats handles GET /products/{id}/feedback.
func (s *Server) ProductFeedbackStats(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(s, w, r, http.StatusOK, s.feedback.ProductStats(r.Context(), chi.URLParam(r, "id")))
}

// SubmitFeedback handles POST /products/{id}/feedback.
func (s *Server) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	env := s.feedback.SubmitFeedback(r.Context(), req.UserID, chi.URLParam(r, "id"), req.Text)
	writeEnvelope(s, w, r, http.StatusCreated, env)
}

// ExtractRating handles POST /feedback/rating.
func (s *Server) ExtractRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	writeEnvelope(s, w, r, http.StatusOK, s.feedback.ExtractRating(r.Context(), req.Text))
}

// GlobalFeedbackStats handles GET /feedback/stats.
func (s *Server) GlobalFeedbackStats(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(s, w, r, http.StatusOK, s.feedback.GlobalStats(r.Context()))
}

// UserFeedbackStats handles GET /users/{id}/feedback.
func (s *Server) UserFeedbackStats(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(s, w, r, http.StatusOK, s.feedback.UserStats(r.Context(), chi.URLParam(r, "id")))
}

// LowRatedProducts handles GET /users/{id}/low-rated.
func (s *Server) LowRatedProducts(w http.ResponseWriter, r *http.Request) {
	env := s.feedback.LowRatedProducts(r.Context(), chi.URLParam(r, "id"), queryInt(r, "threshold"))
	if env.Err == nil && env.Data == nil {
		env.Data = []string{}
	}
	writeEnvelope(s, w, r, http.StatusOK, env)
}

// GetProfile handles GET /users/{id}/profile.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(s, w, r, http.StatusOK, s.profiles.UserProfile(r.Context(), chi.URLParam(r, "id")))
}

// PutProfile handles PUT /users/{id}/profile.
func (s *Server) PutProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	env := s.profiles.SaveProfile(r.Context(), domain.UserProfile{
		ID:                  chi.URLParam(r, "id"),
		Name:                req.Name,
		Interests:           req.Interests,
		PurchasedProductIDs: req.PurchasedProductIDs,
		Attributes:          req.Attributes,
	})
	writeEnvelope(s, w, r, http.StatusOK, env)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Version: version.String(),
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// queryInt parses an integer query parameter. Missing or malformed values
// yield 0, which the agents replace with their defaults.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil {
		return 0
	}
	return v
}

func writeEnvelope[T any](s *Server, w http.ResponseWriter, r *http.Request, status int, env agent.Envelope[T]) {
	if env.Err != nil {
		s.handleAgentError(w, r, env.Agent, env.Err)
		return
	}
	writeJSON(w, status, agentResponse{Agent: env.Agent, Data: env.Data})
}

// internalErrorBody is sent when a response value cannot be encoded.
var internalErrorBody = []byte(`{"code":"` + codeInternalError + `","message":"internal error"}` + "\n")

// writeJSON encodes v before sending any header, so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		zap.L().Error("encode response", zap.Int("status", status), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(internalErrorBody)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		zap.L().Debug("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeMessage returns a client-facing message without exposing upstream internals.
// Input errors are our own wording and are returned verbatim.
func safeMessage(err error, sentinel error) string {
	if errors.Is(sentinel, domain.ErrInvalidInput) {
		return err.Error()
	}
	return sentinel.Error()
}

// clientSentinels are matched in order by clientMessage.
var clientSentinels = []error{domain.ErrNotFound, domain.ErrServiceFailure, domain.ErrProviderError, domain.ErrEmptyResponse}

// clientMessage is the client-facing text for a composite failure: input
// errors verbatim, otherwise only the sentinel's own wording.
func clientMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	for _, sentinel := range clientSentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, agentName string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeJSON(w, status, errorResponse{
			Code:    code,
			Message: safeMessage(err, sentinel),
			Agent:   agentName,
		})
		return true
	}
}

func (s *Server) handleAgentError(w http.ResponseWriter, r *http.Request, agentName string, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("agent error", zap.String("agent", agentName), zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err, agentName) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
