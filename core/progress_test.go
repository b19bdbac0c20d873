package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressAdvance(t *testing.T) {
	p := newProgress(40, 5)

	var reported []int
	for done := 1; done <= 40; done++ {
		if pct, ok := p.advance(done); ok {
			reported = append(reported, pct)
		}
	}

	want := make([]int, 0, 20)
	for pct := 5; pct <= 100; pct += 5 {
		want = append(want, pct)
	}
	assert.Equal(t, want, reported)
}

func TestProgressAdvance_FewRows(t *testing.T) {
	p := newProgress(3, 5)

	pct, ok := p.advance(1)
	assert.True(t, ok)
	assert.Equal(t, 30, pct)

	_, ok = newProgress(0, 5).advance(1)
	assert.False(t, ok)
}
