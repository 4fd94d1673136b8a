package redis

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/shopagent/internal/db"
)

var scalarKeywords = map[db.IndexFieldType]string{
	db.IndexFieldNumeric: "NUMERIC",
	db.IndexFieldTag:     "TAG",
	db.IndexFieldText:    "TEXT",
}

// CreateIndex runs FT.CREATE for def. A concurrent creator winning the race
// surfaces as db.ErrIndexExists.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := createArgs(def)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}

	err = s.do(ctx, s.b().Arbitrary("FT.CREATE").Args(args...).Build()).Error()
	switch {
	case err == nil:
		return nil
	case isRedisErr(err, "index already exists"):
		return db.ErrIndexExists
	default:
		return &db.Error{Op: db.OpCreateIndex, Err: fmt.Errorf("index %s: %w", def.Name, err)}
	}
}

// IndexExists asks FT.INFO about name.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	err := s.do(ctx, s.b().Arbitrary("FT.INFO").Args(name).Build()).Error()
	switch {
	case err == nil:
		return true, nil
	case isMissingIndex(err):
		return false, nil
	default:
		return false, &db.Error{Op: db.OpIndexInfo, Err: fmt.Errorf("index %s: %w", name, err)}
	}
}

// isMissingIndex matches the FT.INFO replies of Redis Stack and Redis 8.
func isMissingIndex(err error) bool {
	return isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index")
}

// createArgs renders def as FT.CREATE arguments, without the command name.
func createArgs(def *db.IndexDefinition) ([]string, error) {
	if def == nil {
		return nil, errors.New("index definition is nil")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	storage := def.StorageType
	if storage == "" {
		storage = db.StorageHash
	}
	args := []string{def.Name, "ON", string(storage)}
	if n := len(def.Prefixes); n > 0 {
		args = append(args, "PREFIX", strconv.Itoa(n))
		args = append(args, def.Prefixes...)
	}

	args = append(args, "SCHEMA")
	for i := range def.Fields {
		fa, err := fieldArgs(&def.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fa...)
	}
	return args, nil
}

func fieldArgs(f *db.IndexField) ([]string, error) {
	if f.Name == "" {
		return nil, errors.New("field name is required")
	}
	if f.Type == db.IndexFieldVector {
		return vectorArgs(f)
	}
	kw, ok := scalarKeywords[f.Type]
	if !ok {
		return nil, fmt.Errorf("field %s: unsupported type %s", f.Name, f.Type)
	}
	return []string{f.Name, kw}, nil
}

// vectorArgs renders "<name> VECTOR <algo> <n> <attrs...>"; FLAT and COSINE
// are the defaults and HNSW tuning is emitted only when set.
func vectorArgs(f *db.IndexField) ([]string, error) {
	if f.VectorDim <= 0 {
		return nil, fmt.Errorf("vector field %s: DIM must be positive", f.Name)
	}

	algo := cmp.Or(f.VectorAlgo, db.VectorFlat)
	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(f.VectorDim),
		"DISTANCE_METRIC", string(cmp.Or(f.VectorDistance, db.DistanceCosine)),
	}
	if algo == db.VectorHNSW {
		if f.VectorM > 0 {
			attrs = append(attrs, "M", strconv.Itoa(f.VectorM))
		}
		if f.VectorEFConstruct > 0 {
			attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(f.VectorEFConstruct))
		}
	}

	return append([]string{f.Name, "VECTOR", string(algo), strconv.Itoa(len(attrs))}, attrs...), nil
}
