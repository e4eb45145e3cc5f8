package cascade

import (
	"context"
	"sort"

	"github.com/kbukum/cascade/resilience"
)

// schedule runs units on at most Parallelism slots and collects outcomes
// until every unit has reported or the run deadline passes. The returned
// outcomes are in construction order.
func (r *run[T]) schedule(ctx context.Context, units []unit) []outcome {
	cfg := &r.engine.cfg

	deadline, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	slots := resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "cascade-" + r.id,
		MaxConcurrent: cfg.Parallelism,
		MaxWait:       resilience.WaitForContext,
	})

	// Buffered so units finishing after the deadline never block.
	reports := make(chan outcome, len(units))
	for i, u := range units {
		go func() {
			_ = slots.Execute(deadline, func() error {
				execCtx := deadline
				if cfg.TimeoutPolicy == TimeoutDrain {
					execCtx = context.WithoutCancel(deadline)
				}
				o := r.execute(execCtx, i, u)
				// A unit still running when the deadline passed is in flight,
				// even if the cancellation made it return early.
				o.late = deadline.Err() != nil
				reports <- o
				return nil
			})
		}()
	}

	outcomes := make([]outcome, 0, len(units))
	for received := 0; received < len(units); received++ {
		select {
		case <-deadline.Done():
			return sortOutcomes(outcomes)
		case o := <-reports:
			if o.late || deadline.Err() != nil {
				return sortOutcomes(outcomes)
			}
			outcomes = append(outcomes, o)
		}
	}
	return sortOutcomes(outcomes)
}

func sortOutcomes(outcomes []outcome) []outcome {
	sort.Slice(outcomes, func(a, b int) bool { return outcomes[a].index < outcomes[b].index })
	return outcomes
}
