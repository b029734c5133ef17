// internal/workers/application/update-application-status/config.go
package updateapplicationstatus

import (
	"time"

	"jobtrack/internal/common/config"
	"jobtrack/pkg/registry"
)

type Config struct {
	Timeout      time.Duration
	InputSchema  map[string]interface{}
	OutputSchema map[string]interface{}
}

// LoadConfig takes the input and output schemas from the registry entry and the timeout from
// the worker settings, falling back to the registry's timeout.
func LoadConfig(reg *registry.ActivityRegistry, wc config.WorkerConfig) *Config {
	cfg := &Config{Timeout: 30 * time.Second}
	if reg != nil {
		if a, ok := reg.Find(TaskType); ok {
			cfg.InputSchema = a.InputSchema
			cfg.OutputSchema = a.OutputSchema
			cfg.Timeout = a.TimeoutDuration(cfg.Timeout)
		}
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
