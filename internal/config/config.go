package config

import "os"

type Config struct {
	HTTPPort  string
	Store     string
	MySQLDSN  string
	RedisAddr string
	Ruleset   string
	AllowNoGM bool
}

func Load() *Config {
	return &Config{
		HTTPPort:  getEnv("HTTP_PORT", "8080"),
		Store:     getEnv("STORE_BACKEND", "memory"),
		MySQLDSN:  getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/shopkeeper?parseTime=true"),
		RedisAddr: getEnv("REDIS_ADDR", ""),
		Ruleset:   getEnv("RULESET", "generic"),
		AllowNoGM: getEnv("ALLOW_NO_GM", "") == "true",
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
