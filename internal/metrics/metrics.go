package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewAssignmentsTotal returns a counter of assignment attempts by outcome
func NewAssignmentsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_assignments_total",
		Help: "Total number of processed assignment requests by outcome",
	}, []string{"outcome"})
}

// NewReservationConflictsTotal returns a counter of reservations lost to a concurrent engine
func NewReservationConflictsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_reservation_conflicts_total",
		Help: "Total number of courier reservations that lost a race",
	})
}

// NewCompensationsTotal returns a counter of reservations released after a failed assignment
func NewCompensationsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_compensations_total",
		Help: "Total number of reservations released after a failed assignment",
	})
}

// Dispatch groups the assignment engine counters.
type Dispatch struct {
	assignments   *prometheus.CounterVec
	conflicts     prometheus.Counter
	compensations prometheus.Counter
}

// NewDispatch creates the counters and registers them with reg.
func NewDispatch(reg prometheus.Registerer) (*Dispatch, error) {
	d := &Dispatch{
		assignments:   NewAssignmentsTotal(),
		conflicts:     NewReservationConflictsTotal(),
		compensations: NewCompensationsTotal(),
	}
	for _, c := range []prometheus.Collector{d.assignments, d.conflicts, d.compensations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ObserveAssignment counts one processed request.
func (d *Dispatch) ObserveAssignment(outcome string) {
	d.assignments.WithLabelValues(outcome).Inc()
}

// ReservationConflict counts one lost reservation race.
func (d *Dispatch) ReservationConflict() {
	d.conflicts.Inc()
}

// Compensation counts one released reservation.
func (d *Dispatch) Compensation() {
	d.compensations.Inc()
}
