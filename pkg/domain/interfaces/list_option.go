package interfaces

import "github.com/secmon-lab/argus/pkg/domain/types"

// ListRequestOption is a functional option for filtering requests in List
type ListRequestOption func(*listRequestConfig)

type listRequestConfig struct {
	status *types.RequestStatus
}

// WithRequestStatus filters requests by exact status
func WithRequestStatus(status types.RequestStatus) ListRequestOption {
	return func(c *listRequestConfig) {
		c.status = &status
	}
}

// BuildListRequestConfig builds a listRequestConfig from options
func BuildListRequestConfig(opts ...ListRequestOption) *listRequestConfig {
	cfg := &listRequestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Status returns the status filter value, or nil if not set
func (c *listRequestConfig) Status() *types.RequestStatus {
	return c.status
}

// ListTaskOption is a functional option for filtering review tasks
type ListTaskOption func(*listTaskConfig)

type listTaskConfig struct {
	status *types.TaskStatus
}

// WithTaskStatus filters tasks by exact status
func WithTaskStatus(status types.TaskStatus) ListTaskOption {
	return func(c *listTaskConfig) {
		c.status = &status
	}
}

// BuildListTaskConfig builds a listTaskConfig from options
func BuildListTaskConfig(opts ...ListTaskOption) *listTaskConfig {
	cfg := &listTaskConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Status returns the status filter value, or nil if not set
func (c *listTaskConfig) Status() *types.TaskStatus {
	return c.status
}
