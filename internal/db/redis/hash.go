package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/shopagent/internal/db"
)

var errNoFields = errors.New("hash has no fields")

// HSet writes fields into the hash at key.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	cmd, err := s.hsetCmd(key, fields)
	if err == nil {
		err = s.do(ctx, cmd).Error()
	}
	if err != nil {
		return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: %w", key, err)}
	}
	return nil
}

// HSetMulti writes several hashes in one round trip. Every failed key is
// reported, not only the first.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(items))
	for _, item := range items {
		cmd, err := s.hsetCmd(item.Key, item.Fields)
		if err != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: %w", item.Key, err)}
		}
		cmds = append(cmds, cmd)
	}

	var errs []error
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			errs = append(errs, fmt.Errorf("key %s: %w", items[i].Key, err))
		}
	}
	if len(errs) > 0 {
		return &db.Error{Op: db.OpHSet, Err: errors.Join(errs...)}
	}
	return nil
}

// HGetAll reads a whole hash. A missing key yields an empty map.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.do(ctx, s.b().Hgetall().Key(key).Build()).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: fmt.Errorf("key %s: %w", key, err)}
	}
	return m, nil
}

// hsetCmd builds HSET with fields in sorted order so commands are reproducible.
func (s *Store) hsetCmd(key string, fields map[string]string) (rueidis.Completed, error) {
	if len(fields) == 0 {
		return rueidis.Completed{}, errNoFields
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	cmd := s.b().Hset().Key(key).FieldValue()
	for _, name := range names {
		cmd = cmd.FieldValue(name, fields[name])
	}
	return cmd.Build(), nil
}
