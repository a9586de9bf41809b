package grove

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiagnostics(t *testing.T, cfg DiagnosticsConfig) (*Diagnostics, *prometheus.Registry, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	d, err := NewDiagnostics(cfg, reg, logger)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d, reg, &buf
}

func TestDiagnosticsRegistersCollectors(t *testing.T) {
	_, reg, _ := newTestDiagnostics(t, DiagnosticsConfig{Namespace: "app"})
	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	// Unobserved vectors are not gathered.
	assert.Contains(t, names, "app_grove_max_parent_count")
	assert.Contains(t, names, "app_grove_max_child_count")
	assert.Contains(t, names, "app_grove_settle_steps")
	assert.Contains(t, names, "app_grove_settle_limit_exceeded_total")
}

func TestDiagnosticsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	d, err := NewDiagnostics(DiagnosticsConfig{}, reg, nil)
	require.NoError(t, err)

	_, err = NewDiagnostics(DiagnosticsConfig{}, reg, nil)
	require.Error(t, err)

	d.Close()
	d.Close()
	d2, err := NewDiagnostics(DiagnosticsConfig{}, reg, nil)
	require.NoError(t, err, "closed diagnostics should free their metric names")
	d2.Close()
}

func TestDiagnosticsEdgeCounts(t *testing.T) {
	d, _, buf := newTestDiagnostics(t, DiagnosticsConfig{ChildCountWarning: 2, ParentCountWarning: 1})
	root := NewNode("root")
	d.AttachTo(root)

	for i := 0; i < 4; i++ {
		root.AddChild(NewNode("c"))
	}
	shared := root.ChildAt(0)
	other := NewNode("other")
	root.AddChild(other)
	other.AddChild(shared)

	assert.Equal(t, 5, d.MaxChildCount())
	assert.Equal(t, 2, d.MaxParentCount())
	assert.Equal(t, 5.0, testutil.ToFloat64(d.maxChildGauge))
	assert.Equal(t, 2.0, testutil.ToFloat64(d.maxParentGauge))

	out := buf.String()
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("child count over threshold")), "warn once when crossing")
	assert.Contains(t, out, "parent count over threshold")
}

func TestDiagnosticsBoundsMetrics(t *testing.T) {
	d, reg, _ := newTestDiagnostics(t, DiagnosticsConfig{})
	n := NewNode("n")
	d.AttachTo(n)
	n.OnBoundsChange(BoundsTotal, func(BoundsChange) {})
	n.SetContent(Rect{Width: 1, Height: 1})
	n.ValidateBounds()

	assert.Equal(t, 1.0, testutil.ToFloat64(d.notifications.WithLabelValues("self")))
	assert.Equal(t, 1.0, testutil.ToFloat64(d.notifications.WithLabelValues("total")))
	assert.Equal(t, 0.0, testutil.ToFloat64(d.notifications.WithLabelValues("child")))

	count, err := testutil.GatherAndCount(reg, "grove_settle_steps")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDiagnosticsSettleLimitMetric(t *testing.T) {
	d, _, buf := newTestDiagnostics(t, DiagnosticsConfig{MaxSettleSteps: 10})
	n := NewNode("spinner")
	d.AttachTo(n)
	n.OnBoundsChange(BoundsTotal, func(BoundsChange) { _ = n.Translate(1, 0) })
	n.SetContent(Rect{Width: 1, Height: 1})

	assert.Panics(t, n.ValidateBounds)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.settleLimitHits))
	assert.Contains(t, buf.String(), "bounds validation aborted")
}

func TestDiagnosticsNilSafe(t *testing.T) {
	var d *Diagnostics
	n := NewNode("n")
	assert.NotPanics(t, func() {
		d.recordChildCount(n)
		d.recordParentCount(n)
		d.recordSettle(3)
		d.recordNotification(BoundsSelf)
		d.settleLimitExceeded(n, nil)
		d.Close()
		d.Logger().Info("discarded")
	})
	assert.Equal(t, DiagnosticsConfig{}, d.Config())
	assert.Zero(t, d.MaxChildCount())
	assert.False(t, d.slowAudit())
}

func TestDiagnosticsAttachAndInherit(t *testing.T) {
	d, _, _ := newTestDiagnostics(t, DiagnosticsConfig{SlowAudit: true})
	root := NewNode("root")
	d.AttachTo(root)
	child := NewNode("child")
	root.AddChild(child)
	assert.Same(t, d, child.Diagnostics())
	assert.True(t, child.Diagnostics().Config().SlowAudit)
}
