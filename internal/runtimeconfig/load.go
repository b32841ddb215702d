package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "DEEPWOOD_"

// LoadOptions controls where Load looks for values. Later sources win:
// defaults, then File, then EnvFiles, then the process environment.
type LoadOptions struct {
	File     string
	EnvFiles []string
	// Environ replaces the process environment when non-nil.
	Environ map[string]string
}

// Load reads path (optional), a local .env file and DEEPWOOD_* variables on
// top of DefaultConfig, then validates the result.
func Load(path string) (Config, error) {
	return LoadWith(LoadOptions{File: path, EnvFiles: []string{".env"}})
}

// LoadWith is Load with explicit sources.
func LoadWith(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	if opts.File != "" {
		if err := LoadFile(opts.File, &cfg); err != nil {
			return cfg, err
		}
	}

	environ := opts.Environ
	if environ == nil {
		if err := loadEnvFiles(opts.EnvFiles); err != nil {
			return cfg, err
		}
	} else if len(opts.EnvFiles) > 0 {
		fileValues, err := readEnvFiles(opts.EnvFiles)
		if err != nil {
			return cfg, err
		}
		for key, value := range environ {
			fileValues[key] = value
		}
		environ = fileValues
	}

	envOpts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		envOpts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, envOpts); err != nil {
		return cfg, fmt.Errorf("deepwood config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile decodes a YAML document over cfg. Keys absent from the file keep
// their current values.
func LoadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("deepwood config: read %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("deepwood config: decode %s: %w", path, err)
	}
	return nil
}

// loadEnvFiles exports .env values that are not already set.
func loadEnvFiles(files []string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("deepwood config: env file %s: %w", file, err)
		}
	}
	return nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	out := map[string]string{}
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("deepwood config: env file %s: %w", file, err)
		}
		for key, value := range values {
			if _, ok := out[key]; !ok {
				out[key] = value
			}
		}
	}
	return out, nil
}
