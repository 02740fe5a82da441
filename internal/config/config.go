package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env-default:"8080"`
	Redis    Redis   `yaml:"redis"`
	Session  Session `yaml:"session"`
	Room     Room    `yaml:"room"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Session struct {
	// Retention - how long a token stays resolvable after its
	// connection drops.
	Retention time.Duration `yaml:"retention" env-default:"30m"`
}

type Room struct {
	IdleTimeout        time.Duration `yaml:"idle-timeout" env-default:"30m"`
	SweepInterval      time.Duration `yaml:"sweep-interval" env-default:"1m"`
	NegotiationTimeout time.Duration `yaml:"negotiation-timeout" env-default:"30s"`
	MaxChatHistory     int           `yaml:"max-chat-history" env-default:"50"`
	MaxNicknameLength  int           `yaml:"max-nickname-length" env-default:"20"`
	MaxMessageLength   int           `yaml:"max-message-length" env-default:"200"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
