package router

import (
	"github.com/lvroute/autoroute/chain"
	"github.com/lvroute/autoroute/host"
	"github.com/lvroute/autoroute/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// config is the resolved, immutable configuration a Bin is built from. The
// key type is Option, a function that mutates a config, in the shape of
// the teacher library's builder.BuilderOption: later options override
// earlier ones, and newConfig applies them in order.
type config struct {
	policy         host.Policy
	collaborators  host.Collaborators
	logger         *zap.Logger
	metrics        *metrics.Collectors
	maxChainLength int
}

// Option customizes the behavior of a Bin.
type Option func(cfg *config)

// WithPolicy sets the policy hooks driving route validation and costing.
// Required: with the zero-value policy (no GetFactories hook), Rebuild
// returns ErrNoFactoriesHook.
func WithPolicy(p host.Policy) Option {
	return func(cfg *config) { cfg.policy = p }
}

// WithCollaborators sets the splitter/null-sink factories the instantiator
// needs for fan-out and unconnected-input termination.
func WithCollaborators(c host.Collaborators) Option {
	return func(cfg *config) { cfg.collaborators = c }
}

// WithLogger sets the zap.Logger a Bin writes structured planning/rebuild
// events to. Defaults to zap.NewNop() — planning never logs by default, per
// SPEC_FULL.md's ambient-logging section, matching a library (as opposed to
// a daemon) being quiet unless asked.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// WithMetrics attaches a metrics.Collectors a Bin updates during planning
// and rebuild. Defaults to a Collectors registered against a private
// prometheus.NewRegistry(), so metrics are always collectible even if the
// caller never scrapes them.
func WithMetrics(m *metrics.Collectors) Option {
	return func(cfg *config) { cfg.metrics = m }
}

// WithMaxChainLength overrides the bound on non-passthrough chain lengths
// the generator will try (spec.md §3: "0 <= n <= MAX_CHAIN_LENGTH (design
// constant, default 4)"). n must be positive; defaults to chain.MaxLength.
func WithMaxChainLength(n int) Option {
	return func(cfg *config) { cfg.maxChainLength = n }
}

// newConfig resolves opts into a config, applying library-sane defaults for
// anything unset.
func newConfig(opts ...Option) *config {
	cfg := &config{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.policy = cfg.policy.Normalized()
	if cfg.metrics == nil {
		cfg.metrics = metrics.NewCollectors(prometheus.NewRegistry())
	}
	if cfg.maxChainLength <= 0 {
		cfg.maxChainLength = chain.MaxLength
	}
	return cfg
}
