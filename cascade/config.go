package cascade

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/kbukum/cascade/errors"
	"github.com/kbukum/cascade/util"
	"github.com/kbukum/cascade/validation"
)

const (
	defaultParallelism = 2
	defaultTimeout     = 30 * time.Second
	// DefaultCascadeFalseParam is the query marker telling a peer not to cascade.
	DefaultCascadeFalseParam = "cascade=false"
)

// Action is the caller-supplied local action. It may fail by returning an
// error or by panicking; both become a failed local result.
type Action[T any] func(ctx context.Context, payload T) error

// TimeoutPolicy decides what happens to units still running when the run
// deadline passes. Their results are dropped either way.
type TimeoutPolicy string

const (
	// TimeoutCancel cancels the context of in-flight units.
	TimeoutCancel TimeoutPolicy = "cancel"
	// TimeoutDrain lets in-flight units finish in the background.
	TimeoutDrain TimeoutPolicy = "drain"
)

// Config describes one cascading action.
type Config[T any] struct {
	// ActionDescription names the action in result messages.
	ActionDescription string `yaml:"action_description" mapstructure:"action_description" validate:"required,notblank"`
	// CascadeEnabled turns peer calls on; nil means enabled. When false every
	// peer gets a placeholder result and no request is made.
	CascadeEnabled *bool `yaml:"cascade_enabled" mapstructure:"cascade_enabled"`
	// Parallelism is the maximum number of units running at once.
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism" validate:"gt=0"`
	// Timeout bounds the whole run.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	// Hosts are the peer base URLs, including this node.
	Hosts []string `yaml:"hosts" mapstructure:"hosts" validate:"required,min=1,dive,notblank"`
	// Path is appended to each host.
	Path string `yaml:"path" mapstructure:"path" validate:"required,notblank"`
	// CascadeFalseParam is the query marker sent to peers.
	CascadeFalseParam string `yaml:"cascade_false_param" mapstructure:"cascade_false_param"`
	// Method is the HTTP method used for peer calls.
	Method Method `yaml:"method" mapstructure:"method" validate:"oneof=GET POST PUT DELETE PATCH HEAD OPTIONS TRACE"`
	// TimeoutPolicy applies to units in flight at the deadline.
	TimeoutPolicy TimeoutPolicy `yaml:"timeout_policy" mapstructure:"timeout_policy" validate:"oneof=cancel drain"`
	// LocalAction performs the action on this node.
	LocalAction Action[T] `yaml:"-" mapstructure:"-" validate:"required"`
}

// DefaultConfig returns a config with every defaulted field set.
func DefaultConfig[T any]() Config[T] {
	return Config[T]{
		CascadeEnabled:    util.Ptr(true),
		Parallelism:       defaultParallelism,
		Timeout:           defaultTimeout,
		CascadeFalseParam: DefaultCascadeFalseParam,
		Method:            MethodPost,
		TimeoutPolicy:     TimeoutCancel,
	}
}

// ApplyDefaults fills zero-valued fields and normalises strings.
func (c *Config[T]) ApplyDefaults() {
	if c.CascadeEnabled == nil {
		c.CascadeEnabled = util.Ptr(true)
	}
	if c.Parallelism == 0 {
		c.Parallelism = defaultParallelism
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	c.CascadeFalseParam = strings.TrimSpace(c.CascadeFalseParam)
	if c.CascadeFalseParam == "" {
		c.CascadeFalseParam = DefaultCascadeFalseParam
	}
	c.Method = Method(strings.ToUpper(strings.TrimSpace(string(c.Method))))
	if c.Method == "" {
		c.Method = MethodPost
	}
	if c.TimeoutPolicy == "" {
		c.TimeoutPolicy = TimeoutCancel
	}
	c.ActionDescription = strings.TrimSpace(c.ActionDescription)
	c.Path = strings.TrimSpace(c.Path)
	hosts := make([]string, len(c.Hosts))
	for i, h := range c.Hosts {
		hosts[i] = strings.TrimSpace(h)
	}
	c.Hosts = hosts
}

// Cascading reports whether peer calls are enabled.
func (c *Config[T]) Cascading() bool {
	return c.CascadeEnabled == nil || *c.CascadeEnabled
}

// Validate checks the config. It returns an *errors.AppError listing every
// invalid field.
func (c *Config[T]) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if _, err := parseMarker(c.CascadeFalseParam); err != nil {
		return err
	}
	return nil
}

// parseMarker parses the cascade-disable marker as a query string.
func parseMarker(param string) (url.Values, error) {
	marker, err := url.ParseQuery(param)
	if err != nil {
		return nil, errors.InvalidInput("cascade_false_param", err.Error())
	}
	if len(marker) == 0 {
		return nil, errors.InvalidInput("cascade_false_param", "no query parameters")
	}
	return marker, nil
}
