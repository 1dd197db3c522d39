// Package metrics provides observability hooks for docsmith runs.
//
// Components receive a Recorder and call it unconditionally. NoopRecorder is
// the default, so metrics cost nothing unless a real implementation is
// injected. PrometheusRecorder collects into its own registry and can dump it
// as a node-exporter textfile at the end of a run:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	gen := generator.New(cfg, generator.WithRecorder(rec))
//	...
//	_ = rec.WriteTextfile("/var/lib/node_exporter/docsmith.prom")
package metrics
