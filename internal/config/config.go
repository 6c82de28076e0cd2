package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API   API   `mapstructure:"api"`
	Sveve Sveve `mapstructure:"sveve"`
	MQ    MQ    `mapstructure:"mq"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type Sveve struct {
	BaseURL  string        `mapstructure:"base_url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Sender   string        `mapstructure:"sender"`
	Test     bool          `mapstructure:"test"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type MQ struct {
	Enable bool   `mapstructure:"enable"`
	URL    string `mapstructure:"url"`
	Queue  string `mapstructure:"queue"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
