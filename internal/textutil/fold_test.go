package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "salud publica", Fold("Salud Pública"))
	assert.Equal(t, "mph internship", Fold("MPH Internship"))
}

func TestFirstMatch(t *testing.T) {
	t.Parallel()

	text := Fold("Graduate Epidemiology Fellowship")

	got, ok := FirstMatch(text, []string{"", "mph", "Epidemiology", "fellowship"})
	assert.True(t, ok)
	assert.Equal(t, "Epidemiology", got)

	_, ok = FirstMatch(text, []string{"biostatistics"})
	assert.False(t, ok)
	assert.False(t, ContainsAny(text, nil))
}
