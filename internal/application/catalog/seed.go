package catalog

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shoestore/storefront/internal/domain/shop"
	"github.com/shoestore/storefront/internal/infrastructure/api"
)

var (
	seedBrands = []string{"Northpeak", "Strideway", "Velocity", "Cobbler & Co", "Apex Trail"}
	seedColors = []string{"black", "white", "navy", "red", "olive", "sand"}
	seedSizes  = []string{"38", "39", "40", "41", "42", "43", "44", "45"}
)

// SeedDemo lists count generated products under the signed-in seller's
// account. Meant for demo and staging environments; the data is random but
// shaped like real listings.
func (s *Service) SeedDemo(ctx context.Context, count int) ([]shop.Shoe, error) {
	if err := s.requireSeller(); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 10
	}

	faker := gofakeit.New(0)
	created := make([]shop.Shoe, 0, count)
	for i := 0; i < count; i++ {
		price := decimal.NewFromFloat(faker.Price(30, 250)).Round(2)
		form := api.ShoeForm{
			Name:        fmt.Sprintf("%s %s", faker.AdjectiveDescriptive(), faker.NounConcrete()),
			Brand:       seedBrands[faker.IntRange(0, len(seedBrands)-1)],
			Price:       price,
			Stock:       faker.IntRange(0, 40),
			Size:        seedSizes[faker.IntRange(0, len(seedSizes)-1)],
			Color:       seedColors[faker.IntRange(0, len(seedColors)-1)],
			Description: faker.Sentence(12),
		}
		sh, err := s.api.CreateShoe(ctx, form)
		if err != nil {
			return created, fmt.Errorf("seeding listing %d of %d: %w", i+1, count, err)
		}
		created = append(created, *sh)
	}
	s.logger.Info("demo listings created", zap.Int("count", len(created)))
	return created, nil
}
