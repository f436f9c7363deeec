package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env        string
	RunAddress string
	AccessTTL  string
}

func MustLoad() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()
	viper.SetDefault("ENV", EnvLocal)
	viper.SetDefault("RUN_ADDRESS", ":8080")
	viper.SetDefault("ACCESS_TTL", "30m")

	return &Config{
		Env:        viper.GetString("ENV"),
		RunAddress: viper.GetString("RUN_ADDRESS"),
		AccessTTL:  viper.GetString("ACCESS_TTL"),
	}
}
