package main

import (
	"regional_ecommerce/internal/config" // Custom package for configuration
	"regional_ecommerce/internal/db"     // Custom package for database migration
)

// Main function to run database migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	// Build the DSN and run the migration
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db.Migrate(dsn)
}
