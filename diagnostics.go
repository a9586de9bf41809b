package grove

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultMaxSettleSteps caps the re-settles of one ValidateBounds call when no
// diagnostics are attached or the config leaves MaxSettleSteps at zero.
const DefaultMaxSettleSteps = 1 << 20

// DiagnosticsConfig configures the optional development checks and telemetry.
type DiagnosticsConfig struct {
	// SlowAudit enables the expensive structural checks on every mutation and
	// a full AuditBounds after every ValidateBounds.
	SlowAudit bool `toml:"slow_audit"`

	// MaxSettleSteps caps how often one ValidateBounds call may settle a node
	// it already settled, i.e. listener feedback. First settles are free.
	// Zero means DefaultMaxSettleSteps; negative disables the cap.
	MaxSettleSteps int `toml:"max_settle_steps"`

	// ChildCountWarning and ParentCountWarning log a warning when a node's
	// edge count first exceeds them. Zero disables the warning.
	ChildCountWarning  int `toml:"child_count_warning"`
	ParentCountWarning int `toml:"parent_count_warning"`

	// Namespace prefixes every metric name.
	Namespace string `toml:"namespace"`
}

// Diagnostics collects telemetry and runs development checks for every node
// it is attached to. Nodes inherit it from the parent they are inserted
// under. All methods are safe on a nil receiver, which disables everything.
type Diagnostics struct {
	cfg    DiagnosticsConfig
	log    *log.Logger
	reg    prometheus.Registerer
	closed bool

	maxParents  int
	maxChildren int

	maxParentGauge  prometheus.Gauge
	maxChildGauge   prometheus.Gauge
	settleSteps     prometheus.Histogram
	notifications   *prometheus.CounterVec
	settleLimitHits prometheus.Counter
}

// NewDiagnostics creates the collectors and registers them on reg. A nil reg
// skips registration and a nil logger discards log output.
func NewDiagnostics(cfg DiagnosticsConfig, reg prometheus.Registerer, logger *log.Logger) (*Diagnostics, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
	}
	d := &Diagnostics{
		cfg: cfg,
		log: logger.WithPrefix("grove"),
		reg: reg,
		maxParentGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "grove_max_parent_count",
			Help:      "Largest number of parents any node has had.",
		}),
		maxChildGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "grove_max_child_count",
			Help:      "Largest number of children any node has had.",
		}),
		settleSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "grove_settle_steps",
			Help:      "Node-processing steps per bounds validation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "grove_bounds_notifications_total",
			Help:      "Bounds change notifications by bounds kind.",
		}, []string{"kind"}),
		settleLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "grove_settle_limit_exceeded_total",
			Help:      "Bounds validations aborted by the settle step cap.",
		}),
	}
	if reg != nil {
		for _, c := range d.collectors() {
			if err := reg.Register(c); err != nil {
				d.unregister()
				return nil, fmt.Errorf("register diagnostics: %w", err)
			}
		}
	}
	return d, nil
}

func (d *Diagnostics) collectors() []prometheus.Collector {
	return []prometheus.Collector{d.maxParentGauge, d.maxChildGauge, d.settleSteps, d.notifications, d.settleLimitHits}
}

func (d *Diagnostics) unregister() {
	if d.reg == nil {
		return
	}
	for _, c := range d.collectors() {
		d.reg.Unregister(c)
	}
}

// Close unregisters the collectors. Nodes keep working with the closed
// diagnostics; their metrics are simply no longer exported.
func (d *Diagnostics) Close() {
	if d == nil || d.closed {
		return
	}
	d.closed = true
	d.unregister()
}

// Config returns the configuration the diagnostics were created with.
func (d *Diagnostics) Config() DiagnosticsConfig {
	if d == nil {
		return DiagnosticsConfig{}
	}
	return d.cfg
}

// Logger returns the diagnostics logger.
func (d *Diagnostics) Logger() *log.Logger {
	return d.logger()
}

// MaxParentCount returns the largest parent count observed.
func (d *Diagnostics) MaxParentCount() int {
	if d == nil {
		return 0
	}
	return d.maxParents
}

// MaxChildCount returns the largest child count observed.
func (d *Diagnostics) MaxChildCount() int {
	if d == nil {
		return 0
	}
	return d.maxChildren
}

// AttachTo hands d to every node of n's subtree, replacing what they had.
func (d *Diagnostics) AttachTo(n *Node) {
	for _, node := range n.GetSubtreeNodes() {
		node.diag = d
	}
}

// Diagnostics returns the diagnostics attached to n, or nil.
func (n *Node) Diagnostics() *Diagnostics {
	return n.diag
}

// --- Hooks used by the engine ---

var discardLogger = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})

func (d *Diagnostics) logger() *log.Logger {
	if d == nil {
		return discardLogger
	}
	return d.log
}

func (d *Diagnostics) slowAudit() bool {
	return d != nil && d.cfg.SlowAudit
}

func (d *Diagnostics) settleLimit() int {
	if d == nil || d.cfg.MaxSettleSteps == 0 {
		return DefaultMaxSettleSteps
	}
	if d.cfg.MaxSettleSteps < 0 {
		return math.MaxInt
	}
	return d.cfg.MaxSettleSteps
}

func (d *Diagnostics) recordChildCount(n *Node) {
	if d == nil {
		return
	}
	count := len(n.children)
	if count > d.maxChildren {
		d.maxChildren = count
		d.maxChildGauge.Set(float64(count))
	}
	if d.cfg.ChildCountWarning > 0 && count == d.cfg.ChildCountWarning+1 {
		d.log.Warn("child count over threshold", "node", n.String(), "children", count, "threshold", d.cfg.ChildCountWarning)
	}
}

func (d *Diagnostics) recordParentCount(n *Node) {
	if d == nil {
		return
	}
	count := len(n.parents)
	if count > d.maxParents {
		d.maxParents = count
		d.maxParentGauge.Set(float64(count))
	}
	if d.cfg.ParentCountWarning > 0 && count == d.cfg.ParentCountWarning+1 {
		d.log.Warn("parent count over threshold", "node", n.String(), "parents", count, "threshold", d.cfg.ParentCountWarning)
	}
}

func (d *Diagnostics) recordSettle(steps int) {
	if d == nil {
		return
	}
	d.settleSteps.Observe(float64(steps))
	d.log.Debug("bounds settled", "steps", steps)
}

func (d *Diagnostics) recordNotification(kind BoundsKind) {
	if d == nil {
		return
	}
	d.notifications.WithLabelValues(kind.String()).Inc()
}

func (d *Diagnostics) settleLimitExceeded(n *Node, err error) {
	if d == nil {
		return
	}
	d.settleLimitHits.Inc()
	d.log.Error("bounds validation aborted", "node", n.String(), "err", err)
}
