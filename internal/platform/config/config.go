package config

import (
	"os"
	"strings"
)

// Server agrupa la configuración del proceso HTTP.
type Server struct {
	Addr          string
	DBDSN         string
	JWTSigningKey string
}

// FromEnv arma la config desde variables de entorno para que main quede corto:
// - PORT (default 8080)
// - DB_DSN (opcional: sin DSN se usan repos in-memory, modo dev)
// - JWT_SIGNING_KEY (opcional: sin key no hay verifier, modo dev con headers debug)
func FromEnv() Server {
	addr := ":8080"
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		addr = ":" + v
	}

	return Server{
		Addr:          addr,
		DBDSN:         strings.TrimSpace(os.Getenv("DB_DSN")),
		JWTSigningKey: strings.TrimSpace(os.Getenv("JWT_SIGNING_KEY")),
	}
}
