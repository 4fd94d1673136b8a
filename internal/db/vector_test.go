package db

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestEncodeVector_LittleEndian(t *testing.T) {
	b := EncodeVector([]float32{1.5, -2})
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(b))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[4:])); got != -2 {
		t.Errorf("second element = %v", got)
	}
}

func TestDecodeVector(t *testing.T) {
	v, err := DecodeVector(EncodeVector([]float32{0.25, -1, 3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v) != 3 || v[0] != 0.25 || v[1] != -1 || v[2] != 3 {
		t.Errorf("decoded %v", v)
	}

	for _, bad := range [][]byte{nil, {1, 2, 3}} {
		if _, err := DecodeVector(bad); err == nil {
			t.Errorf("expected error for %v", bad)
		}
	}
}
