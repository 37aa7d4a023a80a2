package main

import (
	"fmt"
	"os"

	"shoppinglist-api/internal/logging"
	"shoppinglist-api/internal/migration"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logging.InitLogger(logging.NewLogConfigFromEnv())

	root := newRootCmd(func(url string) (migrator, error) {
		if url != "" {
			return migration.New(&migration.Config{DatabaseURL: url})
		}
		return migration.NewFromEnv()
	})
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
