package feedback

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/shopagent/internal/db"
	"github.com/kailas-cloud/shopagent/internal/domain"
)

const (
	// IndexName is the FT index over feedback hashes.
	IndexName = domain.KeyPrefix + "feedback:idx"
	keyPrefix = domain.KeyPrefix + "feedback:"

	fieldID        = "id"
	fieldUserID    = "user_id"
	fieldProductID = "product_id"
	fieldText      = "text"
	fieldRating    = "rating"
	fieldCreatedAt = "created_at"

	pageSize = 200
)

var returnFields = []string{fieldID, fieldUserID, fieldProductID, fieldText, fieldRating, fieldCreatedAt}

// store is the consumer interface for feedback (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
}

// Repo stores reviews as hashes indexed by user, product and rating.
type Repo struct {
	store store
}

// New creates a feedback repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the feedback index unless it already exists.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", IndexName, err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(IndexName).
		Prefix(keyPrefix).
		Tag(fieldUserID).
		Tag(fieldProductID).
		Numeric(fieldRating).
		Numeric(fieldCreatedAt).
		Build()
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", IndexName, err)
	}
	return nil
}

// Save writes a review. The caller assigns the ID.
func (r *Repo) Save(ctx context.Context, fb *domain.Feedback) error {
	if fb.ID == "" {
		return fmt.Errorf("feedback id is required: %w", domain.ErrInvalidInput)
	}
	fields := map[string]string{
		fieldID:        fb.ID,
		fieldUserID:    fb.UserID,
		fieldProductID: fb.ProductID,
		fieldText:      fb.Text,
		fieldRating:    strconv.Itoa(fb.Rating),
		fieldCreatedAt: strconv.FormatInt(fb.CreatedAt.Unix(), 10),
	}
	if err := r.store.HSet(ctx, keyPrefix+fb.ID, fields); err != nil {
		return fmt.Errorf("hset feedback %s: %w", fb.ID, err)
	}
	return nil
}

// ListByProduct returns every review of a product.
func (r *Repo) ListByProduct(ctx context.Context, productID string) ([]domain.Feedback, error) {
	return r.list(ctx, db.TagQuery(fieldProductID, productID))
}

// ListByUser returns every review written by a user.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]domain.Feedback, error) {
	return r.list(ctx, db.TagQuery(fieldUserID, userID))
}

// ListAll returns every stored review.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Feedback, error) {
	return r.list(ctx, "*")
}

// list pages through FT.SEARCH until the reported total is consumed.
func (r *Repo) list(ctx context.Context, query string) ([]domain.Feedback, error) {
	var out []domain.Feedback
	for offset := 0; ; offset += pageSize {
		res, err := r.store.SearchList(ctx, IndexName, query, offset, pageSize, returnFields)
		if err != nil {
			return nil, fmt.Errorf("search feedback %q: %w", query, err)
		}
		if res == nil {
			break
		}
		for _, e := range res.Entries {
			out = append(out, fromFields(e.Key, e.Fields))
		}
		if len(res.Entries) < pageSize || offset+pageSize >= res.Total {
			break
		}
	}
	return out, nil
}

func fromFields(key string, f map[string]string) domain.Feedback {
	fb := domain.Feedback{
		ID:        f[fieldID],
		UserID:    f[fieldUserID],
		ProductID: f[fieldProductID],
		Text:      f[fieldText],
	}
	if fb.ID == "" {
		fb.ID = strings.TrimPrefix(key, keyPrefix)
	}
	if v, err := strconv.Atoi(f[fieldRating]); err == nil {
		fb.Rating = v
	}
	if v, err := strconv.ParseInt(f[fieldCreatedAt], 10, 64); err == nil {
		fb.CreatedAt = time.Unix(v, 0).UTC()
	}
	return fb
}
