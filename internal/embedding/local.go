package embedding

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// DefaultLocalDimension is the vector size of the local fallback.
const DefaultLocalDimension = 768

// LocalStrategy derives a stable pseudo-random unit vector from the text's MD5
// digest. The vectors carry no semantic content; equal texts map to equal
// vectors and nothing else is guaranteed.
type LocalStrategy struct {
	dim int
}

// NewLocalStrategy creates the local fallback. dim <= 0 selects DefaultLocalDimension.
func NewLocalStrategy(dim int) *LocalStrategy {
	if dim <= 0 {
		dim = DefaultLocalDimension
	}
	return &LocalStrategy{dim: dim}
}

// Name implements Strategy.
func (s *LocalStrategy) Name() string { return StrategyLocal }

// Dimension returns the vector size.
func (s *LocalStrategy) Dimension() int { return s.dim }

// Embed implements Strategy. It never fails.
func (s *LocalStrategy) Embed(_ context.Context, text string) ([]float32, error) {
	return HashEmbedding(text, s.dim), nil
}

// HashEmbedding seeds a PCG generator with the big-endian digest value mod 2^32
// (its last four bytes), draws dim standard-normal values and L2-normalizes
// them. A zero vector is returned unnormalized.
func HashEmbedding(text string, dim int) []float32 {
	digest := md5.Sum([]byte(text))
	seed := binary.BigEndian.Uint32(digest[12:])
	rng := rand.New(rand.NewPCG(uint64(seed), 0))

	raw := make([]float64, dim)
	var sum float64
	for i := range raw {
		raw[i] = rng.NormFloat64()
		sum += raw[i] * raw[i]
	}

	norm := math.Sqrt(sum)
	vec := make([]float32, dim)
	for i, v := range raw {
		if norm == 0 {
			vec[i] = float32(v)
			continue
		}
		vec[i] = float32(v / norm)
	}
	return vec
}
