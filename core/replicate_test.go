package core

import (
	"testing"

	"github.com/huangsam/chartmap/schema"
	"github.com/stretchr/testify/assert"
)

func TestReplicate(t *testing.T) {
	g := &schema.Grid{Lines: 2, Samples: 2, Bands: 1, Data: []uint8{1, 2, 3, 4}}

	out := Replicate(g, 2)
	assert.Equal(t, 4, out.Lines)
	assert.Equal(t, 4, out.Samples)
	assert.Equal(t, []uint8{
		1, 1, 2, 2,
		1, 1, 2, 2,
		3, 3, 4, 4,
		3, 3, 4, 4,
	}, out.Data)
}

func TestReplicate_KeepsBands(t *testing.T) {
	g := schema.NewGrid(1, 1, schema.NumYears, 0)
	g.SetVector(0, 0, vec(8, 10, 8, 12))

	out := Replicate(g, 2)
	for i := range 2 {
		for j := range 2 {
			assert.Equal(t, vec(8, 10, 8, 12), out.Vector(i, j))
		}
	}
}

func TestReplicate_FactorOneCopies(t *testing.T) {
	g := &schema.Grid{Lines: 1, Samples: 1, Bands: 1, Data: []uint8{9}}
	out := Replicate(g, 1)
	out.Data[0] = 1
	assert.Equal(t, uint8(9), g.Data[0])
}
