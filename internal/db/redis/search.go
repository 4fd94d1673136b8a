package redis

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/shopagent/internal/db"
)

const (
	scoreAlias         = "__vector_score"
	defaultVectorField = "vector"
	searchDialect      = "2"
)

var (
	errNoIndex  = errors.New("redis: index name is required")
	errNoVector = errors.New("redis: query vector is required")
	errBadK     = errors.New("redis: k must be positive")
)

// SearchKNN returns the K nearest documents to q.Vector, closest first.
// Each hit carries the raw metric value in Distance.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	args, err := knnArgs(q)
	if err != nil {
		return nil, err
	}
	raw, err := s.ftSearch(ctx, args)
	if err != nil {
		return nil, err
	}
	res, err := parseReply(raw)
	if err != nil {
		return nil, err
	}
	for i := range res.Entries {
		liftScore(&res.Entries[i])
	}
	return res, nil
}

// SearchList pages through documents matching query.
func (s *Store) SearchList(
	ctx context.Context, index, query string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	if index == "" {
		return nil, errNoIndex
	}
	args := []string{index, query, "LIMIT", strconv.Itoa(max(offset, 0)), strconv.Itoa(max(limit, 0))}
	args = appendReturn(args, fields)
	args = append(args, "DIALECT", searchDialect)

	raw, err := s.ftSearch(ctx, args)
	if err != nil {
		return nil, err
	}
	return parseReply(raw)
}

func (s *Store) ftSearch(ctx context.Context, args []string) ([]rueidis.RedisMessage, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return raw, nil
}

func knnArgs(q *db.KNNQuery) ([]string, error) {
	switch {
	case q.IndexName == "":
		return nil, errNoIndex
	case len(q.Vector) == 0:
		return nil, errNoVector
	case q.K <= 0:
		return nil, errBadK
	}

	prefilter := "*"
	if q.Filter != "" {
		prefilter = "(" + q.Filter + ")"
	}
	query := fmt.Sprintf("%s=>[KNN %d @%s $BLOB AS %s]",
		prefilter, q.K, cmp.Or(q.VectorField, defaultVectorField), scoreAlias)

	args := []string{q.IndexName, query}
	if len(q.ReturnFields) > 0 {
		args = appendReturn(args, append([]string{scoreAlias}, q.ReturnFields...))
	}
	return append(args,
		"SORTBY", scoreAlias,
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", string(db.EncodeVector(q.Vector)),
		"DIALECT", searchDialect,
	), nil
}

func appendReturn(args, fields []string) []string {
	if len(fields) == 0 {
		return args
	}
	args = append(args, "RETURN", strconv.Itoa(len(fields)))
	return append(args, fields...)
}

// parseReply decodes [total, key1, [f, v, ...], key2, ...]. Malformed
// pairs are skipped.
func parseReply(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("redis: search total: %w", err)
	}

	res := &db.SearchResult{Total: int(total)}
	for rest := raw[1:]; len(rest) >= 2; rest = rest[2:] {
		key, kerr := rest[0].ToString()
		pairs, ferr := rest[1].ToArray()
		if kerr != nil || ferr != nil {
			continue
		}
		res.Entries = append(res.Entries, db.SearchEntry{Key: key, Fields: fieldMap(pairs)})
	}
	return res, nil
}

func fieldMap(pairs []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(pairs)/2)
	for ; len(pairs) >= 2; pairs = pairs[2:] {
		name, nerr := pairs[0].ToString()
		value, verr := pairs[1].ToString()
		if nerr == nil && verr == nil {
			m[name] = value
		}
	}
	return m
}

// liftScore moves the KNN score alias out of Fields into Distance. An
// unparsable or NaN score leaves Distance nil.
func liftScore(e *db.SearchEntry) {
	raw, ok := e.Fields[scoreAlias]
	if !ok {
		return
	}
	delete(e.Fields, scoreAlias)
	if d, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(d) {
		e.Distance = &d
	}
}
