// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	SignalsHandled          = expvar.NewInt("signals_handled_total")
	RecordsAppended         = expvar.NewInt("cause_records_appended")
	CausesRecorded          = expvar.NewInt("causes_recorded_total")
	CausesDeduplicated      = expvar.NewInt("causes_deduplicated_total")
	LockContention          = expvar.NewInt("finalize_lock_contention")
	NotificationsDispatched = expvar.NewInt("notifications_dispatched")
	NotificationsFailed     = expvar.NewInt("notifications_failed")
)
