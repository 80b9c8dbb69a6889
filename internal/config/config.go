package config

import (
	"os"      // For environment variables
	"strconv" // For string to number conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Default tax rate applied to cart subtotals when TAX_RATE is unset
const defaultTaxRate = 0.08

// Config holds the application configuration
type Config struct {
	AppPort    string  // Application port
	DBUser     string  // Database user
	DBPassword string  // Database password
	DBHost     string  // Database host
	DBPort     string  // Database port
	DBName     string  // Database name
	JWTSecret  string  // JWT secret key
	RedisAddr  string  // Redis server address
	RedisPass  string  // Redis password
	RedisDB    int     // Redis database number
	TaxRate    float64 // Sales tax fraction applied at cart view and checkout
	IsProd     bool    // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	taxRate := defaultTaxRate
	if v, err := strconv.ParseFloat(os.Getenv("TAX_RATE"), 64); err == nil && v >= 0 {
		taxRate = v
	}
	return &Config{
		AppPort:    os.Getenv("APP_PORT"),          // Application port
		DBUser:     os.Getenv("DB_USER"),           // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:     os.Getenv("DB_HOST"),           // Database host
		DBPort:     os.Getenv("DB_PORT"),           // Database port
		DBName:     os.Getenv("DB_NAME"),           // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),        // JWT secret key
		RedisAddr:  os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:    redisDB,                        // Redis database number
		TaxRate:    taxRate,                        // Sales tax fraction
		IsProd:     os.Getenv("IS_PROD") == "true", // Is production environment
	}
}
