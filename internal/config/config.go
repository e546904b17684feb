// Package config wires viper to the typebind config file and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	fileName  = "config"
	fileType  = "yaml"
	envPrefix = "TYPEBIND"
)

// Keys understood in the config file and environment.
const (
	KeyCatalogRoots  = "catalog_roots"  // directories scanned for application bundles
	KeyBindingsPath  = "bindings_path"  // default-handler bindings file
	KeyTypeDatabase  = "type_database"  // type database path or URL
	KeySecurityLevel = "security_level" // guard level: strict, standard, permissive
)

// Dir returns the path to the typebind config directory (~/.typebind/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".typebind")
	}
	return filepath.Join(home, ".typebind")
}

// FilePath returns the full path to the config file (~/.typebind/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Load initializes viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault(KeyCatalogRoots, []string{"/Applications"})
	viper.SetDefault(KeyBindingsPath, filepath.Join(Dir(), "bindings.yaml"))
	viper.SetDefault(KeyTypeDatabase, filepath.Join(Dir(), "types.yaml"))
	viper.SetDefault(KeySecurityLevel, "standard")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}
