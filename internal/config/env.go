package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by vaultlinks.
const (
	EnvVault  = "VAULTLINKS_VAULT"
	EnvConfig = "VAULTLINKS_CONFIG"
)

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// Env holds the values of the vaultlinks environment variables.
type Env struct {
	Vault  string
	Config string
}

// LoadEnv reads the vaultlinks variables from the process environment and
// from the dotenv file at path. The process environment wins. A missing
// file is not an error, and the process environment is never modified.
func LoadEnv(path string) (Env, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Env{}, err
		}
		values = map[string]string{}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return values[key]
	}

	return Env{
		Vault:  lookup(EnvVault),
		Config: lookup(EnvConfig),
	}, nil
}

// ApplyTo fills the vault and configuration file of cfg when the command
// line left them empty.
func (e Env) ApplyTo(cfg *Config) {
	if cfg.Vault == "" {
		cfg.Vault = e.Vault
	}
	if cfg.ConfigFilePath == "" {
		cfg.ConfigFilePath = e.Config
	}
}
