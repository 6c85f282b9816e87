package config

import (
	"flag"
	"os"

	"github.com/marianfedorco24/api/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-e string   environment ("dev" or "prod")
//	-k string   cache endpoint API key
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with flags owned by other packages.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-e", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	environment := fs.String("e", string(config.Env), "environment (dev or prod)")
	fs.StringVar(&config.CacheAPIKey, "k", config.CacheAPIKey, "cache endpoint API key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.Env = Environment(*environment)
}
