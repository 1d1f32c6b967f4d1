package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBag_CloneIsDeep(t *testing.T) {
	orig := Bag{"value": 1, "meta": map[string]any{"k": "v"}}
	c := orig.Clone()
	c["value"] = 2
	c["meta"].(map[string]any)["k"] = "changed"

	assert.Equal(t, 1, orig["value"])
	assert.Equal(t, "v", orig["meta"].(map[string]any)["k"])
	assert.Equal(t, Bag{}, Bag(nil).Clone())
}

func TestBag_Number(t *testing.T) {
	b := Bag{"i": 3, "f": 2.5, "s": "4", "padded": " 4.5 ", "b": true, "u": uint8(7), "x": struct{}{}, "empty": "", "word": "four"}
	for key, want := range map[string]float64{"i": 3, "f": 2.5, "s": 4, "padded": 4.5, "b": 1, "u": 7} {
		got, ok := b.Number(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	for _, key := range []string{"x", "empty", "word"} {
		_, ok := b.Number(key)
		assert.False(t, ok, key)
	}
	_, ok := b.Number("missing")
	assert.False(t, ok)
}
