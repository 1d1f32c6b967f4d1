package interp

import (
	"math"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

// Bag is the value bag handed from node to node: "value", "commandType",
// "distance", "syncTo", "sleep" and friends. It is never persisted.
type Bag map[string]any

// Clone returns a deep copy of the bag.
func (b Bag) Clone() Bag {
	if b == nil {
		return Bag{}
	}
	c, err := copystructure.Copy(map[string]any(b))
	if err != nil {
		shallow := make(Bag, len(b))
		for k, v := range b {
			shallow[k] = v
		}
		return shallow
	}
	return Bag(c.(map[string]any))
}

// Number returns the bag entry as a float64.
func (b Bag) Number(key string) (float64, bool) {
	v, ok := b[key]
	if !ok {
		return 0, false
	}
	return toNumber(v)
}

// toNumber converts the value shapes that travel in bags to float64:
// numbers, bools (1 or 0) and numeric strings.
func toNumber(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
		if v == "" {
			return 0, false
		}
	}
	var f float64
	if err := mapstructure.WeakDecode(v, &f); err != nil {
		return 0, false
	}
	return f, true
}

// truthy is the branch test shared by data and sensor branches: a value
// selects the true exit when it equals 1, is true, or is positive.
func truthy(v any) bool {
	n, ok := toNumber(v)
	return ok && (n == 1 || n > 0)
}

// toInt truncates like the diagram tools do when they pass numbers on to
// integer-only hardware fields.
func toInt(f float64) int {
	return int(math.Trunc(f))
}
