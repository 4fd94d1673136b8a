package redis

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/shopagent/internal/db"
)

func productIndex() *db.IndexDefinition {
	def, _ := db.NewIndex("shopagent:products:idx").
		Prefix("shopagent:product:").
		Text("name").
		Tag("category").
		Numeric("price").
		VectorHNSW("vector", 4, db.DistanceCosine, 16, 200).
		Build()
	return def
}

func TestCreateIndex_Args(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.CREATE", "shopagent:products:idx", "ON", "HASH",
			"PREFIX", "1", "shopagent:product:",
			"SCHEMA",
			"name", "TEXT",
			"category", "TAG",
			"price", "NUMERIC",
			"vector", "VECTOR", "HNSW", "10",
			"TYPE", "FLOAT32", "DIM", "4", "DISTANCE_METRIC", "COSINE",
			"M", "16", "EF_CONSTRUCTION", "200",
		)).
		Return(mock.Result(mock.RedisString("OK")))

	if err := newStore(c).CreateIndex(context.Background(), productIndex()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.CREATE" })).
		Return(mock.Result(mock.RedisError("Index already exists")))

	err := newStore(c).CreateIndex(context.Background(), productIndex())
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.CREATE" })).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	err := newStore(c).CreateIndex(context.Background(), productIndex())
	if !isDBError(err) {
		t.Fatalf("expected *db.Error, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
			Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("idx")))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
			Return(mock.Result(mock.RedisError("Unknown Index name"))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
			Return(mock.ErrorResult(context.DeadlineExceeded)),
	)

	s := newStore(c)
	ctx := context.Background()

	if ok, err := s.IndexExists(ctx, "idx"); err != nil || !ok {
		t.Errorf("expected (true, nil), got (%v, %v)", ok, err)
	}
	if ok, err := s.IndexExists(ctx, "idx"); err != nil || ok {
		t.Errorf("expected (false, nil), got (%v, %v)", ok, err)
	}
	if _, err := s.IndexExists(ctx, "idx"); !isDBError(err) {
		t.Errorf("expected *db.Error, got %v", err)
	}
}

func TestCreateArgs_Validation(t *testing.T) {
	if _, err := createArgs(nil); err == nil {
		t.Error("expected error for nil definition")
	}
	if _, err := createArgs(&db.IndexDefinition{Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldTag}}}); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := createArgs(&db.IndexDefinition{Name: "idx"}); err == nil {
		t.Error("expected error for empty fields")
	}
}

func TestFieldArgs(t *testing.T) {
	tests := []struct {
		name    string
		field   db.IndexField
		want    []string
		wantErr bool
	}{
		{"tag", db.IndexField{Name: "f", Type: db.IndexFieldTag}, []string{"f", "TAG"}, false},
		{"numeric", db.IndexField{Name: "f", Type: db.IndexFieldNumeric}, []string{"f", "NUMERIC"}, false},
		{"text", db.IndexField{Name: "f", Type: db.IndexFieldText}, []string{"f", "TEXT"}, false},
		{"flat defaults", db.IndexField{Name: "v", Type: db.IndexFieldVector, VectorDim: 3}, []string{
			"v", "VECTOR", "FLAT", "6", "TYPE", "FLOAT32", "DIM", "3", "DISTANCE_METRIC", "COSINE",
		}, false},
		{"empty name", db.IndexField{Type: db.IndexFieldTag}, nil, true},
		{"unknown type", db.IndexField{Name: "f", Type: db.IndexFieldType(99)}, nil, true},
		{"zero dim", db.IndexField{Name: "v", Type: db.IndexFieldVector}, nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := fieldArgs(&tc.field)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCreateIndex_InvalidDefinitionIsNotSent(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	err := newStore(c).CreateIndex(context.Background(), &db.IndexDefinition{Name: "bad name!"})
	if !isDBError(err) {
		t.Fatalf("expected *db.Error, got %v", err)
	}
}
