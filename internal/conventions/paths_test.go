package conventions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/opsq/internal/conventions"
)

func TestSeedPath(t *testing.T) {
	assert.Equal(t, "/home/ava/.opsq/seed.yaml", conventions.SeedPath("/home/ava"))
}
