// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package metrics exposes circuit simulation events as Prometheus metrics.
//
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements breadboard.Metrics.
//
type Collector struct {
	gatherer prometheus.Gatherer

	Passes      prometheus.Counter
	Faults      prometheus.Counter
	ConnErrors  prometheus.Counter
	Runs        *prometheus.CounterVec
	Running     prometheus.Gauge
	ElementsNum prometheus.Gauge
	WiresNum    prometheus.Gauge
}

// New registers the simulation metrics against reg. If reg is nil, the
// default registerer is used. Registering twice against the same registerer
// reuses the existing collectors.
//
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	c := &Collector{gatherer: gatherer}

	var err error
	if c.Passes, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "breadboard_propagation_passes_total",
		Help: "Number of completed value propagation passes.",
	})); err != nil {
		return nil, err
	}
	if c.Faults, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "breadboard_propagation_faults_total",
		Help: "Number of propagation passes cut by the depth guard.",
	})); err != nil {
		return nil, err
	}
	if c.ConnErrors, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "breadboard_connection_errors_total",
		Help: "Number of wiring error notifications sent by elements.",
	})); err != nil {
		return nil, err
	}
	if c.Runs, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "breadboard_simulation_events_total",
		Help: "Simulation start and stop events.",
	}, []string{"event"})); err != nil {
		return nil, err
	}
	if c.Running, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "breadboard_simulation_running",
		Help: "1 while a simulation is running.",
	})); err != nil {
		return nil, err
	}
	if c.ElementsNum, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "breadboard_elements",
		Help: "Number of elements in the circuit.",
	})); err != nil {
		return nil, err
	}
	if c.WiresNum, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "breadboard_wires",
		Help: "Number of wires in the circuit.",
	})); err != nil {
		return nil, err
	}
	return c, nil
}

// Gatherer returns the gatherer associated with the collector.
//
func (c *Collector) Gatherer() prometheus.Gatherer { return c.gatherer }

// PropagationPass implements breadboard.Metrics.
//
func (c *Collector) PropagationPass() { c.Passes.Inc() }

// CycleFault implements breadboard.Metrics.
//
func (c *Collector) CycleFault() { c.Faults.Inc() }

// ConnectionError implements breadboard.Metrics.
//
func (c *Collector) ConnectionError() { c.ConnErrors.Inc() }

// SimulationStarted implements breadboard.Metrics.
//
func (c *Collector) SimulationStarted() {
	c.Runs.WithLabelValues("start").Inc()
	c.Running.Set(1)
}

// SimulationStopped implements breadboard.Metrics.
//
func (c *Collector) SimulationStopped() {
	c.Runs.WithLabelValues("stop").Inc()
	c.Running.Set(0)
}

// SetElements implements breadboard.Metrics.
//
func (c *Collector) SetElements(n int) { c.ElementsNum.Set(float64(n)) }

// SetWires implements breadboard.Metrics.
//
func (c *Collector) SetWires(n int) { c.WiresNum.Set(float64(n)) }

func registerCounter(reg prometheus.Registerer, m prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(m); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, errors.New("counter already registered with incompatible type")
		}
		return nil, errors.Wrap(err, "register counter")
	}
	return m, nil
}

func registerCounterVec(reg prometheus.Registerer, m *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(m); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, errors.New("counter vector already registered with incompatible type")
		}
		return nil, errors.Wrap(err, "register counter vector")
	}
	return m, nil
}

func registerGauge(reg prometheus.Registerer, m prometheus.Gauge) (prometheus.Gauge, error) {
	if err := reg.Register(m); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, errors.New("gauge already registered with incompatible type")
		}
		return nil, errors.Wrap(err, "register gauge")
	}
	return m, nil
}
