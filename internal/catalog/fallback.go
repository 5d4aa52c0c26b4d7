// Package catalog holds the static fallback catalog served on read paths when
// Postgres is unreachable, trading correctness for availability.
package catalog

import "github.com/serdchef/coskunyayci-backend/internal/models"

// Fallback returns a fresh copy of the built-in catalog so callers can't
// mutate the shared data.
func Fallback() []models.Product {
	out := make([]models.Product, len(fallbackProducts))
	for i := range fallbackProducts {
		out[i] = copyProduct(&fallbackProducts[i])
	}
	return out
}

// FallbackBySKU looks a product up in the static catalog.
func FallbackBySKU(sku string) (*models.Product, bool) {
	for i := range fallbackProducts {
		if fallbackProducts[i].SKU == sku {
			p := copyProduct(&fallbackProducts[i])
			return &p, true
		}
	}
	return nil, false
}

// copyProduct clones the product including its variants slice, which would
// otherwise alias the package-level data.
func copyProduct(p *models.Product) models.Product {
	out := *p
	out.Variants = make([]models.ProductVariant, len(p.Variants))
	copy(out.Variants, p.Variants)
	return out
}

// Prices in kuruş. The seed command loads the same set into Postgres.
var fallbackProducts = []models.Product{
	{
		SKU:         "BKLV-FISTIK",
		Name:        "Fıstıklı Baklava",
		Description: "Classic pistachio baklava with Gaziantep pistachios",
		Category:    "baklava",
		Region:      "Gaziantep",
		BasePrice:   45000,
		Active:      true,
		Variants: []models.ProductVariant{
			{SizeLabel: "500g", Price: 45000, Stock: 40},
			{SizeLabel: "1kg", Price: 85000, Stock: 25},
		},
	},
	{
		SKU:         "BKLV-CEVIZ",
		Name:        "Cevizli Baklava",
		Description: "Walnut baklava in thin phyllo layers",
		Category:    "baklava",
		Region:      "Gaziantep",
		BasePrice:   35000,
		Active:      true,
		Variants: []models.ProductVariant{
			{SizeLabel: "500g", Price: 35000, Stock: 40},
			{SizeLabel: "1kg", Price: 65000, Stock: 30},
		},
	},
	{
		SKU:         "BKLV-SOBIYET",
		Name:        "Şöbiyet",
		Description: "Cream-filled pistachio şöbiyet",
		Category:    "baklava",
		Region:      "Gaziantep",
		BasePrice:   50000,
		Active:      true,
		Variants: []models.ProductVariant{
			{SizeLabel: "500g", Price: 50000, Stock: 20},
			{SizeLabel: "1kg", Price: 95000, Stock: 15},
		},
	},
	{
		SKU:         "BKLV-MIDYE",
		Name:        "Midye Baklava",
		Description: "Mussel-shaped baklava, extra pistachio filling",
		Category:    "baklava",
		Region:      "Gaziantep",
		BasePrice:   52000,
		Active:      true,
		Variants: []models.ProductVariant{
			{SizeLabel: "500g", Price: 52000, Stock: 18},
		},
	},
	{
		SKU:         "KDYF-TEL",
		Name:        "Tel Kadayıf",
		Description: "Shredded kadayıf with walnut",
		Category:    "kadayif",
		Region:      "Hatay",
		BasePrice:   30000,
		Active:      true,
		Variants: []models.ProductVariant{
			{SizeLabel: "500g", Price: 30000, Stock: 35},
			{SizeLabel: "1kg", Price: 56000, Stock: 20},
		},
	},
	{
		SKU:         "TTLI-SUTLU",
		Name:        "Sütlü Nuriye",
		Description: "Milk-soaked light baklava with hazelnuts",
		Category:    "baklava",
		Region:      "Istanbul",
		BasePrice:   32000,
		Active:      true,
		Variants: []models.ProductVariant{
			{SizeLabel: "1kg", Price: 60000, Stock: 22},
		},
	},
	{
		SKU:         "TTLI-HAVUC",
		Name:        "Havuç Dilimi",
		Description: "Carrot-slice baklava, generous pistachio",
		Category:    "baklava",
		Region:      "Gaziantep",
		BasePrice:   47000,
		Active:      true,
		Variants: []models.ProductVariant{
			{SizeLabel: "500g", Price: 47000, Stock: 28},
			{SizeLabel: "1kg", Price: 90000, Stock: 16},
		},
	},
	{
		SKU:         "SRMA-SARAY",
		Name:        "Saray Sarması",
		Description: "Rolled palace sarma with clotted cream",
		Category:    "sarma",
		Region:      "Istanbul",
		BasePrice:   48000,
		Active:      true,
		Variants: []models.ProductVariant{
			{SizeLabel: "500g", Price: 48000, Stock: 12},
		},
	},
}
