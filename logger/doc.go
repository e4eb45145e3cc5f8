// Package logger wraps zerolog with the field conventions used across cascade
// nodes: component tagging, map-based fields and a process-wide default logger.
//
//	log := logger.New(&cfg, "cascade").WithComponent("engine")
//	log.Info("cascade finished", logger.Fields(logger.FieldRunID, id, "units", 3))
package logger
