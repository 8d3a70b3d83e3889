package worker

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Workers    int           `envconfig:"WORKER_COUNT" default:"4"`
	QueueSize  int           `envconfig:"WORKER_QUEUE_SIZE" default:"256"`
	JobTimeout time.Duration `envconfig:"WORKER_JOB_TIMEOUT" default:"30s"`
	MaxTries   uint          `envconfig:"WORKER_MAX_TRIES" default:"3"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
