package serverconfig

import (
	"os"

	"DewanRaja/internal/shared/config"
)

const defaultConfigRelPath = "configs/conf.yml"

var Conf Config

func Load() {
	LoadFrom("")
}

func LoadFrom(path string) {
	config.Load(config.Resolve(path, defaultConfigRelPath), &Conf)
	// Env var wins; otherwise backfill from config for local development.
	if os.Getenv("JWT_SECRET") == "" && Conf.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.JWTSecret)
	}
}
