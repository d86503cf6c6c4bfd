package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/abgdnv/gocart/pkg/config"
	"github.com/abgdnv/gocart/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig     `koanf:"server"`
	Database   config.DatabaseConfig `koanf:"database"`
	Log        config.LogConfig      `koanf:"log"`
	PProf      config.PProfConfig    `koanf:"pprof"`
	Shutdown   config.ShutdownConfig `koanf:"shutdown"`
	NATS       config.NATSConfig     `koanf:"nats"`
	Catalog    CatalogConfig         `koanf:"catalog"`
	Cart       CartConfig            `koanf:"cart"`
}

// CatalogConfig points the service at the remote catalog API serving
// stock and product data.
type CatalogConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

func (c *CatalogConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("catalog URL is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("catalog request timeout is not configured")
	}
	return nil
}

// CartConfig holds cart-specific settings. With InMemory set, the
// service keeps its snapshot in process memory and needs neither a
// database nor a NATS cluster; outcomes go to the structured log.
type CartConfig struct {
	SnapshotKey string `koanf:"snapshotKey"`
	InMemory    bool   `koanf:"inMemory"`
}

func (c *CartConfig) Validate() error {
	if c.SnapshotKey == "" {
		return fmt.Errorf("cart snapshot key is not configured")
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.HTTPServer.Port))
	b.WriteString(fmt.Sprintf("  server.maxHeaderBytes: %d\n", c.HTTPServer.MaxHeaderBytes))
	b.WriteString(fmt.Sprintf("  server.timeout.read: %v\n", c.HTTPServer.Timeout.Read))
	b.WriteString(fmt.Sprintf("  server.timeout.write: %v\n", c.HTTPServer.Timeout.Write))
	b.WriteString(fmt.Sprintf("  server.timeout.idle: %v\n", c.HTTPServer.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  server.timeout.readHeader: %v\n", c.HTTPServer.Timeout.ReadHeader))

	b.WriteString("\n--- Cart Configuration ---\n")
	b.WriteString(fmt.Sprintf("  cart.snapshotKey: %s\n", c.Cart.SnapshotKey))
	b.WriteString(fmt.Sprintf("  cart.inMemory: %t\n", c.Cart.InMemory))

	b.WriteString("\n--- Catalog Configuration ---\n")
	b.WriteString(fmt.Sprintf("  catalog.url: %s\n", c.Catalog.URL))
	b.WriteString(fmt.Sprintf("  catalog.timeout: %s\n", c.Catalog.Timeout))

	if !c.Cart.InMemory {
		b.WriteString("\n--- Database Configuration ---\n")
		b.WriteString(fmt.Sprintf("  database.url: %s\n", maskURL(c.Database.URL)))
		b.WriteString(fmt.Sprintf("  database.connect.timeout: %s\n", c.Database.Timeout))

		b.WriteString("\n--- NATS Configuration ---\n")
		b.WriteString(fmt.Sprintf("  nats.url: %s\n", c.NATS.Url))
		b.WriteString(fmt.Sprintf("  nats.timeout: %s\n", c.NATS.Timeout))
	}

	b.WriteString("\n--- Observability & Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))
	b.WriteString(fmt.Sprintf("  pprof.address: %s\n", c.PProf.Addr))

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))

	return b.String()
}

func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	// Mask the URL by replacing the username and password with "****"
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return "****"
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Cart.Validate(); err != nil {
		return err
	}
	// database and NATS are only reachable in durable mode
	if !c.Cart.InMemory {
		if err := c.Database.Validate(); err != nil {
			return err
		}
		if err := c.NATS.Validate(); err != nil {
			return err
		}
	}
	return nil
}
