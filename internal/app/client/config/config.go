package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultAPIURL    = "http://localhost:8080"
	defaultLogLevel  = "info"
	defaultEnv       = EnvLocal
	defaultConfigDir = ".ecomapa"
)

type Config struct {
	Env       string `mapstructure:"app_env"`
	APIURL    string `mapstructure:"api_url"`
	LogLevel  string `mapstructure:"log_level"`
	ConfigDir string `mapstructure:"config_dir"`
	DataPath  string `mapstructure:"data_path"`
}

// MustLoad loads the client configuration from the environment and an
// optional .env file, panicking when the result is unusable.
func MustLoad() *Config {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("failed to load .env file: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("API_URL", defaultAPIURL)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("failed to create config directory: %v\n", err)
	}

	config := &Config{
		Env:       viper.GetString("APP_ENV"),
		APIURL:    viper.GetString("API_URL"),
		LogLevel:  viper.GetString("LOG_LEVEL"),
		ConfigDir: configDir,
		DataPath:  filepath.Join(configDir, "ecomapa.db"),
	}

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	return config
}

func (c *Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url must not be empty")
	}
	if c.ConfigDir == "" {
		return fmt.Errorf("config_dir must not be empty")
	}
	return nil
}

// IsProd checks whether the environment is prod.
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// IsDev checks whether the environment is dev.
func (c *Config) IsDev() bool {
	return c.Env == EnvDev
}

// IsLocal checks whether the environment is local.
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
