package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

const (
	keyPrefix = domain.KeyPrefix + "user:"

	fieldName      = "name"
	fieldInterests = "interests"
	fieldPurchased = "purchased"
	attrPrefix     = "attr:"
	listSeparator  = ","
)

// store is the consumer interface for user profiles (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo stores user profiles as hashes.
type Repo struct {
	store store
}

// New creates a user profile repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns the profile of a user, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (domain.UserProfile, error) {
	m, err := r.store.HGetAll(ctx, keyPrefix+id)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("hgetall user %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.UserProfile{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	p := domain.UserProfile{
		ID:                  id,
		Name:                m[fieldName],
		Interests:           splitList(m[fieldInterests]),
		PurchasedProductIDs: splitList(m[fieldPurchased]),
	}
	for k, v := range m {
		if name, ok := strings.CutPrefix(k, attrPrefix); ok {
			if p.Attributes == nil {
				p.Attributes = make(map[string]string)
			}
			p.Attributes[name] = v
		}
	}
	return p, nil
}

// Save writes a profile. Attributes are stored as attr:<name> fields.
func (r *Repo) Save(ctx context.Context, p *domain.UserProfile) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	fields := map[string]string{
		fieldName:      p.Name,
		fieldInterests: strings.Join(p.Interests, listSeparator),
		fieldPurchased: strings.Join(p.PurchasedProductIDs, listSeparator),
	}
	for k, v := range p.Attributes {
		fields[attrPrefix+k] = v
	}
	if err := r.store.HSet(ctx, keyPrefix+p.ID, fields); err != nil {
		return fmt.Errorf("hset user %s: %w", p.ID, err)
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, listSeparator)
	out := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
