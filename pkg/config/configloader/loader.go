// Package configloader loads layered configuration into a validated struct.
package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Validator interface {
	Validate() error
}

// Options controls where configuration values are read from.
type Options struct {
	// EnvPrefix is stripped from environment variable names, e.g. PRODUCT_SVC_.
	EnvPrefix string
	// ConfigFile is the optional YAML file. Defaults to config.yaml.
	ConfigFile string
	// EnvFile is the optional dotenv file. Defaults to .env.
	EnvFile string
	// Defaults are loaded first and overridden by every other source.
	Defaults map[string]any
	// Aliases maps unprefixed environment variables to config keys, e.g. PORT -> server.port.
	Aliases map[string]string
}

// Load reads configuration in increasing priority: defaults, YAML file, .env file,
// aliased environment variables and finally prefixed environment variables.
func Load[T Validator](opts Options) (T, error) {
	var cfg T
	k := koanf.New(".")

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = "config.yaml"
	}
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	envPrefix := strings.ToLower(opts.EnvPrefix)

	// 1. Defaults
	if len(opts.Defaults) > 0 {
		if err := k.Load(confmap.Provider(opts.Defaults, "."), nil); err != nil {
			return cfg, fmt.Errorf("error loading config defaults: %w", err)
		}
	}

	// 2. Load configuration from yaml file
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
		}
	}

	canonical := canonicalKeys(opts.Defaults)
	envTransformer := func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, envPrefix)
		key = strings.ReplaceAll(key, "_", ".")
		if c, ok := canonical[key]; ok {
			return c
		}
		return key
	}

	// 3. Load environment variables from .env file, only the prefixed ones
	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if !strings.HasPrefix(strings.ToLower(key), envPrefix) {
				continue
			}
			envMap[envTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 4. Aliased environment variables
	for name, key := range opts.Aliases {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			if err := k.Set(key, value); err != nil {
				log.Printf("WARN: error applying env alias %s: %v", name, err)
			}
		}
	}

	// 5. Load environment variables from the system, the highest priority
	if err := k.Load(env.Provider(strings.ToUpper(opts.EnvPrefix), ".", envTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	// 6. Unmarshal the configuration into the Config struct
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// 7. Validate the configuration
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// canonicalKeys maps the lowercased form of every default key to its spelling in
// defaults, so PREFIX_SERVER_MAXHEADERBYTES overrides server.maxHeaderBytes instead
// of landing next to it as server.maxheaderbytes.
func canonicalKeys(defaults map[string]any) map[string]string {
	keys := make(map[string]string, len(defaults))
	for key := range defaults {
		keys[strings.ToLower(key)] = key
	}
	return keys
}
