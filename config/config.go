package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string
	PGHost     string
	PGUser     string
	PGDBName   string
	PGPassword string
	PGPort     string

	MySQLHost     string
	MySQLUser     string
	MySQLPassword string
	MySQLDBName   string
	MySQLPort     string

	JwtSecretKey string
	AppPort      string
	LogLevel     string
	ViewsReload  bool

	ElasticAPMServerURL   string
	ElasticAPMServiceName string
	ElasticAPMEnvironment string

	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine, the process environment is used instead.
	_ = godotenv.Load()

	config := &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		PGHost:     os.Getenv("PG_HOST"),
		PGUser:     os.Getenv("PG_USER"),
		PGDBName:   os.Getenv("PG_DBNAME"),
		PGPassword: os.Getenv("PG_PASSWORD"),
		PGPort:     getEnv("PG_PORT", "5432"),

		MySQLHost:     os.Getenv("MYSQL_HOST"),
		MySQLUser:     os.Getenv("MYSQL_USER"),
		MySQLPassword: os.Getenv("MYSQL_PASSWORD"),
		MySQLDBName:   os.Getenv("MYSQL_DBNAME"),
		MySQLPort:     getEnv("MYSQL_PORT", "3306"),

		JwtSecretKey: os.Getenv("JwtSecretKey"),
		AppPort:      getEnv("APP_PORT", "4000"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ViewsReload:  os.Getenv("VIEWS_RELOAD") == "true",

		ElasticAPMServerURL:   os.Getenv("ELASTIC_APM_SERVER_URL"),
		ElasticAPMServiceName: os.Getenv("ELASTIC_APM_SERVICE_NAME"),
		ElasticAPMEnvironment: os.Getenv("ELASTIC_APM_ENVIRONMENT"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
