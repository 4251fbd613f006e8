package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"family_directory/internal/config/connections/s3"
	"family_directory/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything a run needs. Values are layered: defaults, then the
// optional YAML file, then .env and the environment, then command-line flags.
type Config struct {
	Debug        bool              `yaml:"debug"`
	Start        int               `yaml:"start"`
	End          int               `yaml:"end"` // < 1 reads to the end of the roster
	BatchSize    int               `yaml:"batch_size"`
	Local        models.Locality   `yaml:"local"`
	ExpandBreaks bool              `yaml:"expand_breaks"`
	Output       string            `yaml:"output"`
	S3           s3.ConnectionInfo `yaml:"s3"`
}

func Default() *Config {
	return &Config{
		Start:     1,
		End:       0,
		BatchSize: 1000,
		Local: models.Locality{
			City:  "Jackson",
			State: "MN",
			Zip:   "56143",
		},
		S3: s3.ConnectionInfo{
			Endpoint: "localhost:9000",
			Region:   "us-east-1",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error

	c.Local.City = getenv("DIRECTORY_LOCAL_CITY", c.Local.City)
	c.Local.State = getenv("DIRECTORY_LOCAL_STATE", c.Local.State)
	c.Local.Zip = getenv("DIRECTORY_LOCAL_ZIP", c.Local.Zip)
	c.Output = getenv("DIRECTORY_OUTPUT", c.Output)

	var err error
	if c.Start, err = getenvInt("DIRECTORY_START", c.Start); err != nil {
		errs = append(errs, err)
	}
	if c.End, err = getenvInt("DIRECTORY_END", c.End); err != nil {
		errs = append(errs, err)
	}
	if c.BatchSize, err = getenvInt("DIRECTORY_BATCH_SIZE", c.BatchSize); err != nil {
		errs = append(errs, err)
	}

	c.S3.Endpoint = getenv("AWS_ENDPOINT", c.S3.Endpoint)
	c.S3.AccessKey = getenv("AWS_ACCESS_KEY_ID", c.S3.AccessKey)
	c.S3.SecretKey = getenv("AWS_SECRET_ACCESS_KEY", c.S3.SecretKey)
	c.S3.Region = getenv("AWS_DEFAULT_REGION", c.S3.Region)
	if v := os.Getenv("AWS_USE_SSL"); v != "" {
		c.S3.UseSSL = v == "true"
	}

	return errors.Join(errs...)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Start < 1 {
		errs = append(errs, fmt.Errorf("start must be at least 1, got %d", c.Start))
	}
	if c.End > 0 && c.End < c.Start {
		errs = append(errs, fmt.Errorf("end %d is before start %d", c.End, c.Start))
	}
	if c.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("batch size must not be negative, got %d", c.BatchSize))
	}
	return errors.Join(errs...)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}
