package db

import (
	"errors"
	"fmt"
	"regexp"
)

// StorageType is the document layout an FT index reads from.
type StorageType string

// StorageHash indexes Redis hashes.
const StorageHash StorageType = "HASH"

// DistanceMetric is the vector distance used by KNN queries.
type DistanceMetric string

const (
	DistanceL2     DistanceMetric = "L2"
	DistanceCosine DistanceMetric = "COSINE" // range [0,2]
)

// VectorAlgorithm is the ANN structure built for a vector field.
type VectorAlgorithm string

const (
	VectorHNSW VectorAlgorithm = "HNSW"
	VectorFlat VectorAlgorithm = "FLAT"
)

// IndexFieldType is the schema type of an indexed field.
type IndexFieldType int

const (
	IndexFieldNumeric IndexFieldType = iota
	IndexFieldTag
	IndexFieldText
	IndexFieldVector
)

var fieldTypeNames = [...]string{"NUMERIC", "TAG", "TEXT", "VECTOR"}

// String returns the FT.CREATE keyword for t.
func (t IndexFieldType) String() string {
	if int(t) < 0 || int(t) >= len(fieldTypeNames) {
		return fmt.Sprintf("IndexFieldType(%d)", int(t))
	}
	return fieldTypeNames[t]
}

// IndexField is one attribute of an index schema. The Vector* options
// apply only to IndexFieldVector.
type IndexField struct {
	Name string
	Type IndexFieldType

	VectorAlgo        VectorAlgorithm
	VectorDim         int
	VectorDistance    DistanceMetric
	VectorM           int // HNSW max edges per node
	VectorEFConstruct int // HNSW build-time candidate list size
}

// IndexDefinition is everything FT.CREATE needs.
type IndexDefinition struct {
	Name        string
	StorageType StorageType
	Prefixes    []string
	Fields      []IndexField
}

// ErrInvalidIndex marks a malformed IndexDefinition.
var ErrInvalidIndex = errors.New("invalid index definition")

var identifierRe = regexp.MustCompile(`^[A-Za-z0-9_:-]+$`)

// IsValidIdentifier reports whether s is a non-empty run of letters,
// digits, '_', ':' or '-'.
func IsValidIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

// Validate reports every problem with the definition, each wrapping
// ErrInvalidIndex.
func (idx *IndexDefinition) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidIndex, fmt.Sprintf(format, args...)))
	}

	switch {
	case idx.Name == "":
		bad("name is required")
	case !IsValidIdentifier(idx.Name):
		bad("name %q has invalid characters", idx.Name)
	}
	if len(idx.Fields) == 0 {
		bad("at least one field is required")
	}

	seen := make(map[string]struct{}, len(idx.Fields))
	for i, f := range idx.Fields {
		if f.Name == "" {
			bad("field %d has no name", i)
			continue
		}
		if _, dup := seen[f.Name]; dup {
			bad("duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Type == IndexFieldVector && f.VectorDim <= 0 {
			bad("vector field %q needs a positive dimension", f.Name)
		}
	}
	return errors.Join(errs...)
}

// IndexBuilder assembles a hash-backed IndexDefinition.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts a definition named name over hashes.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name, StorageType: StorageHash}}
}

func (b *IndexBuilder) field(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Prefix restricts the index to keys starting with any of prefixes.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

func (b *IndexBuilder) Numeric(name string) *IndexBuilder {
	return b.field(IndexField{Name: name, Type: IndexFieldNumeric})
}

func (b *IndexBuilder) Tag(name string) *IndexBuilder {
	return b.field(IndexField{Name: name, Type: IndexFieldTag})
}

func (b *IndexBuilder) Text(name string) *IndexBuilder {
	return b.field(IndexField{Name: name, Type: IndexFieldText})
}

// VectorHNSW adds an HNSW vector field. Zero m or efConstruct leaves the
// server default.
func (b *IndexBuilder) VectorHNSW(name string, dim int, distance DistanceMetric, m, efConstruct int) *IndexBuilder {
	return b.field(IndexField{
		Name:              name,
		Type:              IndexFieldVector,
		VectorAlgo:        VectorHNSW,
		VectorDim:         dim,
		VectorDistance:    distance,
		VectorM:           m,
		VectorEFConstruct: efConstruct,
	})
}

// Build validates the definition and returns a copy of it.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	def.Prefixes = append([]string(nil), b.def.Prefixes...)
	def.Fields = append([]IndexField(nil), b.def.Fields...)
	return &def, nil
}
