package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/roprogo/internal/hwio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReading(t *testing.T) {
	cases := []struct {
		name string
		args []any
		want float64
	}{
		{"json number", []any{float64(512)}, 512},
		{"int", []any{3}, 3},
		{"bool", []any{true}, 1},
		{"string", []any{"0.5"}, 0.5},
		{"padded string", []any{" 12 "}, 12},
		{"wrapped", []any{map[string]any{"value": float64(7)}}, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseReading(tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseReading_Errors(t *testing.T) {
	_, err := parseReading(nil)
	require.Error(t, err)
	_, err = parseReading([]any{[]int{1}})
	require.Error(t, err)
	_, err = parseReading([]any{"high"})
	assert.ErrorContains(t, err, `sensor reading "high"`)
}

func TestDevice_RefusesWhenDisconnected(t *testing.T) {
	d := &Device{}
	ctx := context.Background()

	_, err := d.SensorValue(ctx, "IF1", 1, 1)
	assert.True(t, errors.Is(err, hwio.ErrNotConnected))
	assert.ErrorIs(t, d.SetOutput(ctx, "IF1", 0, map[string]any{"value": 1}), hwio.ErrNotConnected)
	assert.ErrorIs(t, d.SetSound(ctx, "IF1", 1, false, 1), hwio.ErrNotConnected)
}

func TestDial_RejectsBadURL(t *testing.T) {
	_, err := Dial(context.Background(), Config{URL: "://bad"})
	require.Error(t, err)
}
