// internal/handlers/submit-enquiry/config.go
package submitenquiry

import (
	"time"

	"valuation-leads/internal/common/config"
)

type Config struct {
	// Timeout bounds one submission. Client disconnects do not shorten it.
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	timeout := config.GetDuration(cfg.Server.SubmitTimeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{Timeout: timeout}
}
