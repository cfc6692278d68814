package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := NewSession(parent)
	b := NewSession(parent)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.False(t, a.IsDone())

	a.Cancel()
	assert.True(t, a.IsDone())
	assert.False(t, b.IsDone())

	cancel()
	assert.True(t, b.IsDone())
}
