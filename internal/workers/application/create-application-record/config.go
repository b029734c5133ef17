// internal/workers/application/create-application-record/config.go
package createapplicationrecord

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
