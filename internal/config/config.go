package config

import (
	"os"

	"github.com/go-yaml/yaml"

	"github.com/hubfolio/hubfolio/internal/domain"
)

type Config struct {
	NodeInfo domain.Config `yaml:"nodeInfo"`
	Server   Server        `yaml:"server"`
}

type Server struct {
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	return config, nil
}
