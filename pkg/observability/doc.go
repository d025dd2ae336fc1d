/*
Package observability turns checker lifecycle events into Prometheus metrics
and structured log records.

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	checker := contour.New(contour.WithLifecycleHooks(hooks))
*/
package observability
