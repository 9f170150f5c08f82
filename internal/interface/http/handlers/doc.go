// Package handlers contains the health report served on GET /health.
//
// Each backing store registers a named check; the checks run in parallel
// with a per-check timeout:
//
//	checker := handlers.NewCompositeHealthChecker("v1.0.0",
//	    handlers.WithCatalogStats(func() any { return eng.Stats() }))
//	checker.AddCheck("postgres", handlers.NewPingCheck(conn))
//
//	status := checker.Check(ctx)
//	if !status.Healthy {
//	    log.Printf("degraded: %s", status.Message)
//	}
package handlers
