package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMixRespectsWeights(t *testing.T) {
	m := NewMix(map[string]int{
		"heavy": 90,
		"light": 10,
	})

	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		counts[m.Pick()]++
	}

	assert.Equal(t, 10000, counts["heavy"]+counts["light"])
	assert.Greater(t, counts["heavy"], 8000)
	assert.Greater(t, counts["light"], 500)
	assert.Less(t, counts["light"], 2000)
}

func TestMixSingleOperation(t *testing.T) {
	m := NewMix(map[string]int{"only": 1})
	for i := 0; i < 100; i++ {
		assert.Equal(t, "only", m.Pick())
	}
}

func TestMixCoversEveryOperation(t *testing.T) {
	weights := map[string]int{"a": 1, "b": 1, "c": 1, "d": 1}
	m := NewMix(weights)

	seen := map[string]bool{}
	for i := 0; i < 5000; i++ {
		seen[m.Pick()] = true
	}
	for name := range weights {
		assert.True(t, seen[name], "operation %s never picked", name)
	}
}
