// Package resilience provides the bulkhead used to bound cascade fan-out.
//
// A Bulkhead is a counting semaphore with optional waiting, rejection hooks
// and in-flight accounting:
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{
//	    Name:          "cascade",
//	    MaxConcurrent: 2,
//	    MaxWait:       resilience.WaitForContext,
//	})
//	err := bh.Execute(ctx, func() error { return callPeer(ctx) })
//
// Failed peers are reported, never retried, so the package intentionally
// carries no retry or circuit-breaker policy.
package resilience
