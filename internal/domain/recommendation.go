package domain

// UserProfile describes a shopper as seen by the recommendation source.
type UserProfile struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name,omitempty"`
	Interests           []string          `json:"interests,omitempty"`
	PurchasedProductIDs []string          `json:"purchased_product_ids,omitempty"`
	Attributes          map[string]string `json:"attributes,omitempty"`
}

// RecommendationResult is the output of the recommendation source.
type RecommendationResult struct {
	Text        string      `json:"recommendations_text"`
	Products    []string    `json:"products"`
	UserProfile UserProfile `json:"user_profile"`
}
