package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nizy/tailor/internal/application/partner"
	"github.com/nizy/tailor/internal/application/trade"
	"github.com/nizy/tailor/internal/infrastructure/config"
	"github.com/nizy/tailor/internal/infrastructure/logger"
	"github.com/nizy/tailor/internal/infrastructure/migration"
	"github.com/nizy/tailor/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		customers int
		maxOrders int
		seed      uint64
	)
	flag.IntVar(&customers, "customers", 25, "Number of customers to create")
	flag.IntVar(&maxOrders, "max-orders", 3, "Maximum orders per customer")
	flag.Uint64Var(&seed, "seed", 0, "Random seed (0 = random)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if cfg.Database.AutoMigrate {
		m, err := migration.New(db.SQL, cfg.Database.Driver, log)
		if err != nil {
			log.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}
	}

	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	customerService := partner.NewCustomerService(customerRepo, log)
	orderService := trade.NewOrderService(orderRepo, customerRepo, log)

	gen := newGenerator(seed, time.Now())
	ctx := context.Background()

	orders := 0
	for i := 0; i < customers; i++ {
		customer, err := customerService.Create(ctx, gen.customer())
		if err != nil {
			log.Fatal("Failed to create customer", zap.Error(err))
		}
		for j := gen.faker.IntRange(0, maxOrders); j > 0; j-- {
			if _, err := orderService.Create(ctx, gen.order(customer.ID)); err != nil {
				log.Fatal("Failed to create order",
					zap.String("customer_id", customer.ID.String()),
					zap.Error(err),
				)
			}
			orders++
		}
	}

	log.Info("Seed completed",
		zap.Int("customers", customers),
		zap.Int("orders", orders),
	)
}
