package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManual(start)

	assert.Equal(t, start, c.Now())
	c.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), c.Now())
	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestOrSystem(t *testing.T) {
	assert.Equal(t, time.UTC, OrSystem(nil).Now().Location())
	m := NewManual(time.Time{})
	assert.Same(t, m, OrSystem(m))
}
