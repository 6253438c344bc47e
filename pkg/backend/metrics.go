package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginCodesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "genesis",
		Subsystem: "auth",
		Name:      "login_codes_total",
		Help:      "The total number of login codes requested",
	}, []string{"delivered"})

	loginsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "genesis",
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "The total number of login code verifications",
	}, []string{"success"})

	structureCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "genesis",
		Subsystem: "tree",
		Name:      "structure_builds_total",
		Help:      "The total number of tree structures built",
	})

	structureCycleCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "genesis",
		Subsystem: "tree",
		Name:      "structure_cycles_total",
		Help:      "The total number of tree structures rejected because of a parent cycle",
	})
)
