package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port   int    `yaml:"port"`
		APIKey string `yaml:"apiKey"` // optional; empty = auth disabled
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`  // trace|debug|info|warn|error
		Format string `yaml:"format"` // json|console
	} `yaml:"log"`

	AI struct {
		APIKey         string `yaml:"apiKey"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"` // deadline untuk satu run pipeline
	} `yaml:"ai"`

	Storage struct {
		Driver     string `yaml:"driver"` // file | mysql | postgres
		OutputsDir string `yaml:"outputsDir"`
		WorkDir    string `yaml:"workDir"` // spool untuk upload sementara
	} `yaml:"storage"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Archive struct {
		Enabled bool `yaml:"enabled"`
		Minio   struct {
			Endpoint   string `yaml:"endpoint"`
			AccessKey  string `yaml:"accessKey"`
			SecretKey  string `yaml:"secretKey"`
			BucketName string `yaml:"bucketName"`
			Region     string `yaml:"region"`
			UseSSL     bool   `yaml:"useSSL"`
		} `yaml:"minio"`
	} `yaml:"archive"`

	Limits struct {
		MaxUploadBytes  int64 `yaml:"maxUploadBytes"`
		MaxExtractChars int   `yaml:"maxExtractChars"`
		RateCapacity    int   `yaml:"rateCapacity"`
		RateRefill      int   `yaml:"rateRefill"` // tokens per second
	} `yaml:"limits"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults isi nilai default + fallback dari env
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 120
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.OutputsDir == "" {
		c.Storage.OutputsDir = "outputs"
	}
	if c.Storage.WorkDir == "" {
		c.Storage.WorkDir = os.TempDir()
	}
	if c.Limits.MaxUploadBytes == 0 {
		c.Limits.MaxUploadBytes = 25 << 20 // 25 MiB
	}
	if c.Limits.MaxExtractChars == 0 {
		c.Limits.MaxExtractChars = 60000
	}
	if c.Limits.RateCapacity == 0 {
		c.Limits.RateCapacity = 10
	}
	if c.Limits.RateRefill == 0 {
		c.Limits.RateRefill = 1
	}
}

// AITimeout deadline untuk satu run pipeline
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		ssl,
	)
}
