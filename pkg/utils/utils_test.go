package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLucene(t *testing.T) {
	assert.Equal(t, `AT\&T \(Holdings\)`, EscapeLucene(" AT&T (Holdings) "))
	assert.Equal(t, "Acme Corp", EscapeLucene("Acme Corp"))
	assert.Equal(t, `a\:b\/c`, EscapeLucene("a:b/c"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Vendor…", Truncate("Vendor shall not compete", 6))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "keep", Truncate("keep", 0))
}

func TestConvert(t *testing.T) {
	assert.Equal(t, []float32{0.5, 1}, ConvertToFloat32([]float64{0.5, 1}))
	assert.Equal(t, []float64{0.5, 1}, ConvertToFloat64([]float32{0.5, 1}))
}
