package config

import "time"

type RedisSettings struct {
	Enabled  bool   `env:"ENABLED"`
	Address  string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"`
}

type SessionSettings struct {
	TickInterval  int
	CommitTimeout int
	InputRate     float64
	InputBurst    int
}

func (s SessionSettings) Tick() time.Duration {
	return time.Duration(s.TickInterval) * time.Millisecond
}

func (s SessionSettings) Commit() time.Duration {
	return time.Duration(s.CommitTimeout) * time.Second
}

type TracingSettings struct {
	Endpoint string `env:"OTEL_ENDPOINT"`
}

type ServerSettings struct {
	Port    int    `env:"PORT"`
	DBPath  string `env:"DB_PATH"`
	Origins []string
	Redis   RedisSettings `envPrefix:"REDIS_"`
	Session SessionSettings
	Tracing TracingSettings
}

type Config struct {
	Server ServerSettings
}
