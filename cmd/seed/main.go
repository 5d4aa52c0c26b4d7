package main

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/serdchef/coskunyayci-backend/internal/catalog"
	"github.com/serdchef/coskunyayci-backend/internal/config"
	"github.com/serdchef/coskunyayci-backend/internal/database"
	"github.com/serdchef/coskunyayci-backend/internal/logger"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
)

// Seed loads the built-in catalog into Postgres. Products already present
// (by SKU) are left alone so re-running is safe.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogBackend)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	db, err := database.ConnectPostgres(cfg, log, database.StorefrontModels()...)
	if err != nil {
		log.Fatal("postgres connection failed", zap.Error(err))
	}
	defer database.Close(db)

	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	created, skipped := 0, 0
	for _, product := range catalog.Fallback() {
		if _, err := repo.FindBySKU(ctx, product.SKU); err == nil {
			skipped++
			continue
		}
		p := product
		p.ID = uuid.Nil // let the database assign IDs
		for i := range p.Variants {
			p.Variants[i].ID = uuid.Nil
			p.Variants[i].ProductID = uuid.Nil
		}
		if err := repo.Create(ctx, &p); err != nil {
			log.Error("seed failed", zap.String("sku", p.SKU), zap.Error(err))
			continue
		}
		created++
		log.Info("seeded product", zap.String("sku", p.SKU), zap.String("name", p.Name))
	}

	log.Info("seed complete", zap.Int("created", created), zap.Int("skipped", skipped))
}
