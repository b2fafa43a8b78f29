// Package config holds the product service configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/productcatalog/pkg/config"
	"github.com/abgdnv/productcatalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

const envPrefix = "PRODUCT_SVC_"

type Config struct {
	HTTPServer config.HTTPConfig     `koanf:"server"`
	CORS       config.CORSConfig     `koanf:"cors"`
	Log        config.LogConfig      `koanf:"log"`
	Admin      config.AdminConfig    `koanf:"admin"`
	Shutdown   config.ShutdownConfig `koanf:"shutdown"`
	Catalog    CatalogConfig         `koanf:"catalog"`
}

// CatalogConfig controls the in-memory catalog.
type CatalogConfig struct {
	// Seed preloads the two fixture products at startup.
	Seed bool `koanf:"seed"`
}

// Defaults returns the values used when no other source sets a key.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":               5000,
		"server.maxHeaderBytes":     1 << 20,
		"server.timeout.read":       "10s",
		"server.timeout.write":      "10s",
		"server.timeout.idle":       "60s",
		"server.timeout.readHeader": "5s",
		"cors.allowedOrigins":       []string{"*"},
		"cors.allowedMethods":       []string{"GET", "POST", "OPTIONS"},
		"cors.allowedHeaders":       []string{"Content-Type"},
		"cors.maxAge":               300,
		"log.level":                 "info",
		"admin.enabled":             false,
		"admin.addr":                ":6060",
		"shutdown.timeout":          "10s",
		"catalog.seed":              true,
	}
}

// Load reads the configuration from defaults, config.yaml, .env and the environment.
// PORT is honored as an alias of PRODUCT_SVC_SERVER_PORT, which takes precedence.
func Load() (*Config, error) {
	return configloader.Load[*Config](configloader.Options{
		EnvPrefix: envPrefix,
		Defaults:  Defaults(),
		Aliases:   map[string]string{"PORT": "server.port"},
	})
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.CORS.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.Admin.String())
	b.WriteString(c.Shutdown.String())

	b.WriteString("\n--- Catalog ---\n")
	b.WriteString(fmt.Sprintf("  seed: %t\n", c.Catalog.Seed))
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.CORS.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Admin.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	return nil
}
