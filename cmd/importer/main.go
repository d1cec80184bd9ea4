package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"shopcart/internal/config"
	"shopcart/internal/db"
	"shopcart/internal/importer"
	"shopcart/internal/repository/product"
)

func main() {
	var (
		filePath  string
		storeCode string
	)
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV export")
	flag.StringVar(&storeCode, "store", "", "Store code to import into (defaults to STORE_CODE)")
	flag.Parse()

	cfg := config.FromEnv()
	if storeCode == "" {
		storeCode = cfg.StoreCode
	}
	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.New(f, product.NewPostgres(pool, nil), storeCode)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d products into store %s in %s\n", count, storeCode, time.Since(start).Truncate(time.Millisecond))
}
