package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeWeightsFor(t *testing.T) {
	w := SizeWeights{Micro: 0.5, Small: 1, Mid: -0.5, Large: -2}
	assert.Equal(t, 0.5, w.For(SizeMicro))
	assert.Equal(t, 1.0, w.For(SizeSmall))
	assert.Equal(t, -0.5, w.For(SizeMid))
	assert.Equal(t, -2.0, w.For(SizeLarge))
	assert.Equal(t, 0.0, w.For(SizeUnknown))
}

func TestAllowsBlocksTag(t *testing.T) {
	p := EffectivePreferences{
		CategoriesAllow: []string{"lighting"},
		CategoriesBlock: []string{"tobacco"},
	}
	assert.True(t, p.AllowsTag("lighting"))
	assert.False(t, p.AllowsTag("tobacco"))
	assert.True(t, p.BlocksTag("tobacco"))
	assert.False(t, p.BlocksTag("lighting"))
}

func TestTemperatureRank(t *testing.T) {
	assert.Equal(t, 0, TempCold.Rank())
	assert.Equal(t, 1, TempWarm.Rank())
	assert.Equal(t, 2, TempHot.Rank())
	assert.Equal(t, 0, Temperature("lava").Rank())
}

func TestTemperatureValid(t *testing.T) {
	assert.True(t, TempCold.Valid())
	assert.True(t, TempWarm.Valid())
	assert.True(t, TempHot.Valid())
	assert.False(t, Temperature("").Valid())
	assert.False(t, Temperature("lava").Valid())
}
