package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login requests by outcome: success, failure.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clinic_auth_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	// AuditWriteFailures counts swallowed audit-log write errors.
	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinic_auth_audit_write_failures_total",
		Help: "Audit log writes that failed and were swallowed.",
	})
)
