package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModel_SubroutineNames(t *testing.T) {
	m := NewModel()
	m.Subroutines["main"] = &Subroutine{Name: "main"}
	m.Subroutines["blink"] = &Subroutine{Name: "blink"}
	assert.Equal(t, []string{"blink", "main"}, m.SubroutineNames())
}

func TestWire_Label(t *testing.T) {
	assert.Equal(t, "w1", (&Wire{ID: "w1", From: []string{"a"}}).Label())
	assert.Equal(t, "[a,b] -> [c]", (&Wire{From: []string{"a", "b"}, To: []string{"c"}}).Label())
}
