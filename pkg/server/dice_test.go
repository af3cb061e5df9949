package server

import (
	"testing"

	"codeberg.org/tslocum/bgmatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDice(counter uint32, secret string) *entropyDice {
	return &entropyDice{
		white:   bgmatch.Identity{1},
		black:   bgmatch.Identity{2},
		id:      42,
		counter: counter,
		secret:  []byte(secret),
	}
}

func TestEntropyDiceDeterministic(t *testing.T) {
	a, b := testDice(3, "secret"), testDice(3, "secret")
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
	assert.Equal(t, a.faces, b.faces)
	assert.Len(t, a.faces, 20)
}

func TestEntropyDiceInputs(t *testing.T) {
	sequence := func(d *entropyDice) []int8 {
		for i := 0; i < 32; i++ {
			d.Generate()
		}
		return d.faces
	}

	base := sequence(testDice(3, "secret"))
	assert.NotEqual(t, base, sequence(testDice(4, "secret")))
	assert.NotEqual(t, base, sequence(testDice(3, "other")))

	swapped := testDice(3, "secret")
	swapped.white, swapped.black = swapped.black, swapped.white
	assert.NotEqual(t, base, sequence(swapped))
}

func TestEntropyDiceRange(t *testing.T) {
	d := testDice(1, "range")
	for i := 0; i < 1000; i++ {
		face := d.Generate()
		require.GreaterOrEqual(t, face, int8(1))
		require.LessOrEqual(t, face, int8(6))
	}
}

func TestDiceStatistics(t *testing.T) {
	const count = 60000
	faces := DiceStatistics(count)

	var total int
	for _, n := range faces {
		total += n
		assert.InDelta(t, count/6, n, count/60)
	}
	assert.Equal(t, count, total)
}

func TestShakeSum(t *testing.T) {
	a := shakeSum([]byte("address"), 32)
	assert.Len(t, a, 32)
	assert.Equal(t, a, shakeSum([]byte("address"), 32))
	assert.NotEqual(t, a, shakeSum([]byte("other"), 32))
}
