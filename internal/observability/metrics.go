package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FallbackGridsServed conta quantas vezes a disponibilidade degradou
// para a grade sintética por falha de leitura no banco.
var FallbackGridsServed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "agenda_fallback_grids_served_total",
	Help: "Availability reads answered with the unverified fallback grid.",
})

var SlotConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "agenda_slot_conflicts_total",
	Help: "Bookings and reschedules rejected by the overlap check.",
})

var BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "agenda_bookings_created_total",
	Help: "Appointments created, by initial status.",
}, []string{"status"})

var StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "agenda_status_transitions_total",
	Help: "Appointment status transitions applied.",
}, []string{"from", "to"})
