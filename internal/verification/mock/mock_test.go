package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/domain"
)

func image(seed byte) []byte {
	img := make([]byte, 5000)
	for i := range img {
		img[i] = byte(i%256) ^ seed
	}
	return img
}

func TestVerifier_RegisterThenVerify(t *testing.T) {
	v := New()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	_, err := v.Register(ctx, alice, image(1))
	require.NoError(t, err)
	_, err = v.Register(ctx, bob, image(2))
	require.NoError(t, err)

	outcome := v.Verify(ctx, image(2))

	assert.True(t, outcome.Matched)
	require.NotNil(t, outcome.EmployeeID)
	assert.Equal(t, bob, *outcome.EmployeeID)
	require.NotNil(t, outcome.ConfidenceScore)
	assert.InDelta(t, 1.0, *outcome.ConfidenceScore, 1e-9)
	assert.True(t, outcome.Confirms(bob))
	assert.False(t, outcome.Confirms(alice))
}

func TestVerifier_Verify_NoMatch(t *testing.T) {
	v := New()
	ctx := context.Background()

	outcome := v.Verify(ctx, image(9))
	assert.False(t, outcome.Matched)
	assert.Nil(t, outcome.EmployeeID)
	assert.Equal(t, "No match found.", outcome.Message)

	_, err := v.Register(ctx, uuid.New(), image(1))
	require.NoError(t, err)

	outcome = v.Verify(ctx, image(9))
	assert.False(t, outcome.Matched)
	if outcome.ConfidenceScore != nil {
		assert.GreaterOrEqual(t, *outcome.ConfidenceScore, 0.0)
		assert.LessOrEqual(t, *outcome.ConfidenceScore, 1.0)
	}
}

func TestVerifier_SmallImage(t *testing.T) {
	v := New()
	ctx := context.Background()

	outcome := v.Verify(ctx, make([]byte, 10))
	assert.False(t, outcome.Matched)

	_, err := v.Register(ctx, uuid.New(), make([]byte, 10))
	assert.ErrorIs(t, err, domain.ErrVerificationRejected)
}

func TestVerifier_ConcurrentAccess(t *testing.T) {
	v := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(seed byte) {
			defer wg.Done()
			_, _ = v.Register(ctx, uuid.New(), image(seed))
		}(byte(i))
		go func(seed byte) {
			defer wg.Done()
			_ = v.Verify(ctx, image(seed))
		}(byte(i))
	}
	wg.Wait()

	assert.Len(t, v.enrolled, 20)
}

func TestGenerateEmbedding_Deterministic(t *testing.T) {
	a := generateEmbedding(image(3))
	b := generateEmbedding(image(3))

	assert.Equal(t, a, b)
	assert.Len(t, a, embeddingDimension)

	var norm float64
	for _, v := range a {
		norm += v * v
	}
	assert.InDelta(t, 1.0, norm, 0.01)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 0}, []float64{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 2}))
}
