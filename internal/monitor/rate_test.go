package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterRate(t *testing.T) {
	c, err := newCounterRate(5, 1000)
	require.NoError(t, err)

	c.observe(10_000, at(0))
	assert.Zero(t, c.Rate(), "first observation only primes")
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, c.History().Snapshot())

	c.observe(10_500, at(1000))
	assert.Equal(t, 500.0, c.Rate())
	assert.Equal(t, 50.0, c.History().Latest(), "below floor scales against floor")

	c.observe(14_500, at(2000))
	assert.Equal(t, 4000.0, c.Rate())
	assert.Equal(t, 4000.0, c.Ceiling())
	assert.Equal(t, 100.0, c.History().Latest(), "new peak is full scale")

	c.observe(16_500, at(3000))
	assert.Equal(t, 50.0, c.History().Latest(), "scaled against held peak")
}

func TestCounterRate_ElapsedIsHonoured(t *testing.T) {
	c, err := newCounterRate(3, 1)
	require.NoError(t, err)

	c.observe(0, at(0))
	c.observe(3000, at(2000))
	assert.Equal(t, 1500.0, c.Rate())
}

func TestCounterRate_CounterReset(t *testing.T) {
	c, err := newCounterRate(3, 100)
	require.NoError(t, err)

	c.observe(5000, at(0))
	c.observe(10, at(1000))
	assert.Zero(t, c.Rate())

	c.observe(60, at(2000))
	assert.Equal(t, 50.0, c.Rate())
}

func TestCounterRate_PeakExpires(t *testing.T) {
	c, err := newCounterRate(2, 100)
	require.NoError(t, err)

	c.observe(0, at(0))
	c.observe(1000, at(1000)) // 1000/s peak
	c.observe(1050, at(2000))
	c.observe(1100, at(3000)) // peak has left the window

	assert.Equal(t, 100.0, c.Ceiling())
	assert.Equal(t, 50.0, c.History().Latest())
}

func TestCounterRate_DefaultFloor(t *testing.T) {
	c, err := newCounterRate(2, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(DefaultRateFloor), c.Ceiling())

	_, err = newCounterRate(0, 1)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}
