package e2e

import "jobtrack/internal/common/config"

func configForTests() config.WorkerConfig {
	return config.WorkerConfig{Enabled: true, Timeout: 5000, MaxJobsActive: 1, MaxRetries: 3}
}
