package action

import (
	"context"
	"encoding/json"

	"github.com/kbukum/cascade/cascade"
	"github.com/kbukum/cascade/logger"
)

// Log returns a local action that only records the payload. Nodes without a
// configured command use it so a cascade can still be exercised end to end.
func Log[T any](log *logger.Logger, description string) cascade.Action[T] {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("action.log")

	return func(_ context.Context, payload T) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		log.Info("action performed", logger.Fields(
			logger.FieldAction, description,
			"payload", string(data),
		))
		return nil
	}
}
