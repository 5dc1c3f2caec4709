/*
Package metrics registers CalvinDB's Prometheus metrics and exposes
health/readiness/liveness HTTP handlers alongside them.

Metrics cover the four points in the pipeline worth watching under
contention: lock queue depth and wait time (pkg/lock via pkg/scheduler),
scheduling latency and failure counts (pkg/scheduler), executor op
duration by statement kind (pkg/executor), and sequencer in-flight count
plus log consumer lag (pkg/sequencer). All are registered at package
init and served by promhttp.Handler() — see cmd/calvindb's serve command.

# See Also

  - pkg/scheduler, pkg/executor, pkg/sequencer for the instrumented call sites
  - Prometheus client library: https://github.com/prometheus/client_golang
*/
package metrics
