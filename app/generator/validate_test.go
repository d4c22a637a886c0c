package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSingle(t *testing.T) {
	assert.True(t, ValidSingle("El perro corre. (The dog runs.)"))
	assert.True(t, ValidSingle("(Hello) extra (World)"))
	assert.False(t, ValidSingle("El perro corre."))
	assert.False(t, ValidSingle("Hola (Hello"))
	assert.False(t, ValidSingle("Hola Hello)"))
}

func TestValidDual(t *testing.T) {
	cases := []struct {
		response string
		valid    bool
	}{
		{"Hola (Hello) (Hola)", true},
		{"El perro corre. (The dog runs.) (El perro)", true},
		{"Hola (Hello", false},
		{"Hola (Hello)", false},
		{"Hola (Hello) (Hola) (extra)", false},
		{"Hola Hello", false},
		{"((nested)) pair", false},
		{"Hola (Hello)) (Hola", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.valid, ValidDual(c.response), c.response)
	}
}
