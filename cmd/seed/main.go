// Command seed loads a starter catalog of handcrafted goods and an
// admin account into the database. It is idempotent: rerunning updates
// nothing that already exists.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/artisanmarket/storefront/internal/auth"
	"github.com/artisanmarket/storefront/internal/catalog"
	"github.com/artisanmarket/storefront/internal/config"
	"github.com/artisanmarket/storefront/internal/db"
	"github.com/artisanmarket/storefront/internal/user"
)

func main() {
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if err := db.RunMigrations(cfg.Database.DSN, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	database, err := db.Open(cfg.Database.DSN, db.Options{})
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := user.NewRepository(database)
	seedAdmin(ctx, logger, users)

	products := catalog.NewRepository(database)
	seedCatalog(ctx, logger, products)
}

func seedAdmin(ctx context.Context, logger *log.Logger, users user.Repository) {
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Fatalf("hash admin password: %v", err)
	}

	admin := &user.User{
		Name:         "Store Admin",
		Email:        "admin@artisanmarket.test",
		Role:         user.RoleAdmin,
		PasswordHash: hash,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			logger.Printf("admin user already present, skipping")
			return
		}
		logger.Fatalf("create admin: %v", err)
	}
	logger.Printf("created admin user %s", admin.Email)
}

func seedCatalog(ctx context.Context, logger *log.Logger, products catalog.Repository) {
	existing, err := products.List(ctx, catalog.ListFilter{})
	if err != nil {
		logger.Fatalf("list products: %v", err)
	}
	if len(existing) > 0 {
		logger.Printf("catalog already seeded (%d products), skipping", len(existing))
		return
	}

	for _, p := range starterCatalog() {
		p := p
		if err := products.Create(ctx, &p); err != nil {
			logger.Fatalf("create product %q: %v", p.Name, err)
		}
	}
	logger.Printf("seeded %d products", len(starterCatalog()))
}

func starterCatalog() []catalog.Product {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	return []catalog.Product{
		{
			Name:        "Hand-thrown Stoneware Mug",
			Description: "Wheel-thrown mug with a speckled glaze, holds 350ml.",
			Price:       price("24.00"),
			Category:    "ceramics",
			Colors:      []string{"sand", "slate"},
			Tags:        []string{"kitchen", "gift"},
			StockCount:  40,
			Image:       "/images/stoneware-mug.jpg",
		},
		{
			Name:        "Walnut Serving Board",
			Description: "End-grain walnut board, food-safe oil finish.",
			Price:       price("58.50"),
			Category:    "woodwork",
			Colors:      []string{"walnut"},
			Tags:        []string{"kitchen"},
			StockCount:  12,
			Image:       "/images/walnut-board.jpg",
		},
		{
			Name:        "Indigo-dyed Linen Scarf",
			Description: "Hand-dyed in small batches, each piece unique.",
			Price:       price("42.00"),
			Category:    "textiles",
			Colors:      []string{"indigo"},
			Tags:        []string{"wearable", "gift"},
			StockCount:  25,
			Image:       "/images/indigo-scarf.jpg",
		},
		{
			Name:        "Forged Steel Bottle Opener",
			Description: "Hand-forged and blackened, built to outlive you.",
			Price:       price("19.00"),
			Category:    "metalwork",
			Colors:      []string{"black"},
			Tags:        []string{"kitchen", "gift"},
			StockCount:  60,
			Image:       "/images/steel-opener.jpg",
		},
		{
			Name:        "Beeswax Taper Candles (pair)",
			Description: "Pure beeswax, 25cm, slow smokeless burn.",
			Price:       price("16.00"),
			Category:    "home",
			Colors:      []string{"honey"},
			Tags:        []string{"home", "gift"},
			StockCount:  80,
			Image:       "/images/beeswax-tapers.jpg",
		},
		{
			Name:        "Leather Journal Cover",
			Description: "Full-grain leather, fits A5 notebooks, ages beautifully.",
			Price:       price("65.00"),
			Category:    "leather",
			Colors:      []string{"tan", "brown"},
			Tags:        []string{"stationery"},
			StockCount:  18,
			Image:       "/images/leather-journal.jpg",
		},
		{
			Name:        "Woven Willow Basket",
			Description: "Traditional stake-and-strand weave, sturdy carry handle.",
			Price:       price("48.00"),
			Category:    "basketry",
			Colors:      []string{"natural"},
			Tags:        []string{"home", "storage"},
			StockCount:  9,
			Image:       "/images/willow-basket.jpg",
		},
		{
			Name:        "Small-batch Lavender Soap",
			Description: "Cold-process soap with dried lavender buds.",
			Price:       price("8.50"),
			Category:    "bath",
			Colors:      []string{"lilac"},
			Tags:        []string{"bath", "gift"},
			StockCount:  120,
			Image:       "/images/lavender-soap.jpg",
		},
	}
}
