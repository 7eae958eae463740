package config

import (
	"fmt"
	"reflect"
	"strings"

	"section-mirror/core/database"
	"section-mirror/core/logger"
	"section-mirror/core/server"
	"section-mirror/core/storage"
	"section-mirror/feature/inventory"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full section-mirror configuration, one block per concern.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds the MinIO endpoint and the bucket for seeds and snapshots.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Inventory holds configuration for the mirrored store.
	Inventory inventory.Config `mapstructure:"inventory"`
}

// LoadConfig reads path/.env (overriding the process environment) and then
// resolves every key from the environment, falling back to the default tag.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Register every key with its default so AutomaticEnv can resolve it.
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports the first setting the serve command cannot start with.
func (c *Config) Validate() error {
	if !c.Server.IsValidPort() {
		return fmt.Errorf("invalid server port %q", c.Server.Port)
	}
	switch c.Database.Driver {
	case database.DriverMySQL, database.DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Inventory.JournalLimit < 0 {
		return fmt.Errorf("journal limit must not be negative, got %d", c.Inventory.JournalLimit)
	}
	return nil
}

// bindValues walks the struct and sets default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
