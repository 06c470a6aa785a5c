// Command statusguard adds any missing order status values to the database
// enum. It is safe to run repeatedly and from several hosts at once.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/enumguard"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

func main() {
	cfg := config.Load()
	typeName := flag.String("type", domain.OrderStatusType, "enum type to patch")
	extra := flag.String("values", "", "comma separated values to ensure in addition to the built-in statuses")
	strict := flag.Bool("strict", false, "exit non-zero when any value could not be added")
	flag.Parse()

	applog.Init(cfg.LogMode, os.Stderr)
	defer applog.Sync()

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		applog.Fatal("db.open", err, map[string]any{"driver": cfg.DBDriver})
	}
	defer db.Close()

	d, err := enumguard.DialectFor(db)
	if err != nil {
		applog.Fatal("enum_guard.unavailable", err, nil)
	}

	values := domain.OrderStatusValues()
	for _, v := range strings.Split(*extra, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	rep := enumguard.New(d).Run(ctx, *typeName, values)

	_ = json.NewEncoder(os.Stdout).Encode(rep)
	if *strict && !rep.OK() {
		applog.Sync()
		os.Exit(1)
	}
}
