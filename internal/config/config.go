package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// Judge0 (RapidAPI)
	Judge0URL     string `mapstructure:"JUDGE0_URL"`
	Judge0APIKey  string `mapstructure:"JUDGE0_API_KEY"`
	Judge0APIHost string `mapstructure:"JUDGE0_API_HOST"`

	// Gemini (AI assistant)
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Cloudinary (editorial videos)
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// OAuth
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `mapstructure:"GOOGLE_CALLBACK_URL"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if AppConfig.Judge0URL == "" {
		AppConfig.Judge0URL = "https://judge0-ce.p.rapidapi.com"
	}
	if AppConfig.Judge0APIHost == "" {
		AppConfig.Judge0APIHost = "judge0-ce.p.rapidapi.com"
	}
}
