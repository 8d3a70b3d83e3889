package pricing

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	QuoteBaseURL    string        `envconfig:"QUOTE_BASE_URL" default:"http://localhost:8090"`
	QuoteTimeout    time.Duration `envconfig:"QUOTE_TIMEOUT" default:"15s"`
	QuoteRetryCount int           `envconfig:"QUOTE_RETRY_COUNT" default:"2"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
