package bootstrap

import "github.com/kbukum/cascade/config"

// Config is the constraint for application configuration types. Structs
// embedding config.ServiceConfig satisfy it through promoted methods when
// they add their own ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
