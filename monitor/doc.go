// Package monitor implements the adaptive health monitoring control
// loop: a scheduler drives periodic evaluation cycles, each cycle runs
// every enabled check concurrently under per-check timeouts, aggregates
// the outcomes into a weighted report, records it in a bounded history,
// raises alerts on threshold crossings, and engages the emergency
// coordinator on critical failures or sustained degradation.
//
//	dispatcher := alert.NewDispatcher(logger)
//	coordinator := emergency.NewCoordinator(nil, controllers, logger)
//
//	m, err := monitor.New(monitor.Options{
//	    Dispatcher:  dispatcher,
//	    Coordinator: coordinator,
//	    Pinger:      dbPinger,
//	})
//	if err != nil {
//	    return err
//	}
//	m.Start()
//	defer m.Stop()
//
// Cycles never overlap: a tick that fires while a cycle is still
// running is skipped, not queued. Failures inside a cycle become data
// (error outcomes, log entries) and never stop the loop.
package monitor
