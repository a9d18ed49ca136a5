// Package metric exports dataset metrics to Prometheus.
package metric
