package integration_tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/roprogo/internal/app"
	"github.com/specialistvlad/roprogo/internal/hwio/sim"
	"github.com/specialistvlad/roprogo/internal/interp"
	"github.com/specialistvlad/roprogo/internal/program"
	"github.com/specialistvlad/roprogo/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestDiagram_InvalidHCLIsRejected(t *testing.T) {
	t.Parallel()

	result := testutil.RunIntegrationTest(t, map[string]string{
		"main.hcl": `subroutine "main" { node "x" {`,
	}, nil)
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "failed to load diagram")
	require.Nil(t, result.App.Program())
}

func TestDiagram_UnknownPinsAreReportedTogether(t *testing.T) {
	t.Parallel()

	result := testutil.RunIntegrationTest(t, map[string]string{
		"main.hcl": `
subroutine "main" {
  node "start" {
    kind = "ftProProcessStart"
    pin "start.out" { class = "flowobjectoutput" }
  }
  wire {
    from = ["start.out"]
    to   = ["nowhere.in"]
  }
  wire {
    from = ["ghost.out"]
    to   = ["start.out"]
  }
}
`,
	}, nil)
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "nowhere.in")
	require.Contains(t, result.Err.Error(), "ghost.out")
}

func TestDiagram_WaitTimeoutFailsRun(t *testing.T) {
	t.Parallel()

	dev := sim.New()
	dev.SetSensor("IF1", 2, 0)

	result := testutil.RunIntegrationTest(t, map[string]string{"main.hcl": buttonMotorBeep}, dev, func(c *app.Config) {
		c.WaitTimeout = 30 * time.Millisecond
		c.PollInterval = time.Millisecond
	})
	require.Error(t, result.Err)
	require.True(t, errors.Is(result.Err, interp.ErrWaitTimeout))
	require.Empty(t, dev.Writes())

	snap := result.App.Program().Status().Snapshot()
	require.Equal(t, program.StateFailed, snap.State)
	require.Equal(t, "button", snap.Node)
}

func TestDiagram_CancelledWhileWaiting(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	dev := sim.New()
	result := testutil.RunIntegrationTestWithContext(ctx, t, map[string]string{"main.hcl": buttonMotorBeep}, dev)
	require.ErrorIs(t, result.Err, context.DeadlineExceeded)
	require.Contains(t, result.Err.Error(), "program failed")
}

func TestDiagram_UnknownEntry(t *testing.T) {
	t.Parallel()

	result := testutil.RunIntegrationTest(t, map[string]string{"main.hcl": buttonMotorBeep}, nil, func(c *app.Config) {
		c.Entry = "setup"
	})
	require.ErrorContains(t, result.Err, `entry subroutine "setup" is not defined`)
}
