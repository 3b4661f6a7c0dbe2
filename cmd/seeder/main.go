package main

import (
	"context"
	"fmt"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/pkg/sigctx"
)

func main() {
	sigCtx, cancel := sigctx.NotifyContext(context.Background())
	defer cancel()

	cfg := config.Load()
	if cfg.SQLDB == "" {
		fmt.Println("sql_db is not configured, nothing to seed")
		os.Exit(2)
	}

	db, err := storage.NewSQLDB(sigCtx, cfg.SQLDB)
	if err != nil {
		printFail(err)
		os.Exit(2)
	}
	defer db.Close()

	n, err := storage.SeedCatalog(sigCtx, storage.NewProductsRepository(db))
	if err != nil {
		printFail(err)
		return
	}

	if n == 0 {
		fmt.Println("catalog is not empty, seed skipped")
		return
	}
	fmt.Printf("catalog is seeded with %d products\n", n)
}

func printFail(err error) {
	fmt.Printf("failed to seed catalog: \n%s\n", err)
}
