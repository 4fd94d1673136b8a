package coordinator

import (
	"fmt"

	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/usecase/generation"
)

const analysisTemplate = `Analyze this product feedback statistics:

Product ID: %s

Feedback Statistics:
- Average Rating: %s
- Total Reviews: %d

Based on this data, please provide:
1. A summary of what this rating suggests about the product
2. Key insights that would be valuable for shoppers
3. Suggestions for the types of customers this product might be good for
`

// AnalysisPrompt renders the fixed feedback-analysis prompt.
func AnalysisPrompt(productID string, stats domain.FeedbackStats) string {
	return fmt.Sprintf(analysisTemplate, productID, generation.FormatRating(stats.AverageRating), stats.TotalFeedbacks)
}
