package service

import "scent-store/internal/domain"

const starterPrice = 2250

// StarterCatalog returns the products written to an empty catalog
func StarterCatalog() []*domain.Product {
	return []*domain.Product{
		{
			ID:          "starborn",
			Name:        "STARBORN",
			Price:       starterPrice,
			Stock:       50,
			Description: "Black Vault Series. A deep yellow-gold amber and dark oud symphony. 50ml Eau De Parfum.",
			Category:    "Bold",
			Badge:       domain.BadgeBestseller,
			Specifications: &domain.Specifications{
				TopNotes:    []string{"Saffron", "Bergamot"},
				MiddleNotes: []string{"Black Rose", "Oud"},
				BaseNotes:   []string{"Amber", "Vanilla"},
				Longevity:   95,
				Sillage:     domain.SillageStrong,
				Occasions:   []string{"Evening ✨", "Party 🕺"},
			},
		},
		{
			ID:          "cool-current",
			Name:        "COOL CURRENT",
			Price:       starterPrice,
			Stock:       50,
			Description: "Sky Blue Collection. A rush of glacial teal oceanic notes. 50ml Eau De Parfum.",
			Category:    "Fresh",
			Specifications: &domain.Specifications{
				TopNotes:    []string{"Sea Salt", "Lime"},
				MiddleNotes: []string{"Mint", "Neroli"},
				BaseNotes:   []string{"Amberwood", "Musk"},
				Longevity:   80,
				Sillage:     domain.SillageModerate,
				Occasions:   []string{"Daily 💼", "Summer ☀️"},
			},
		},
		{
			ID:          "forever-dawn",
			Name:        "FOREVER DAWN",
			Price:       starterPrice,
			Stock:       50,
			Description: "Pure White Edition. Radiant notes of first light and dewy teal gardenia. 50ml Eau De Parfum.",
			Category:    "Fresh",
			Badge:       domain.BadgeNewArrival,
			Specifications: &domain.Specifications{
				TopNotes:    []string{"White Peach", "Aldehydes"},
				MiddleNotes: []string{"Dewy Rose", "Peony"},
				BaseNotes:   []string{"Iris", "Solar Musk"},
				Longevity:   82,
				Sillage:     domain.SillageModerate,
				Occasions:   []string{"Morning 🌞", "Office"},
			},
		},
		{
			ID:          "golden-pulse",
			Name:        "GOLDEN PULSE",
			Price:       starterPrice,
			Stock:       50,
			Description: "Emerald and Orange Label. A warm pulse of saffron and teal amber. 50ml Eau De Parfum.",
			Category:    "Bold",
			Badge:       domain.BadgeLimitedEdition,
			Specifications: &domain.Specifications{
				TopNotes:    []string{"Saffron", "Nutmeg"},
				MiddleNotes: []string{"Amber", "Labdanum"},
				BaseNotes:   []string{"Sandalwood", "Patchouli"},
				Longevity:   90,
				Sillage:     domain.SillageStrong,
				Occasions:   []string{"Formal 👔", "Special Occasion 🎉"},
			},
		},
		{
			ID:          "tobacco-trail",
			Name:        "TOBACCO TRAIL",
			Price:       starterPrice,
			Stock:       50,
			Description: "Earthy Taupe Series. A smokey path of roasted tobacco and aged yellow oak. 50ml Eau De Parfum.",
			Category:    "Woody",
			Specifications: &domain.Specifications{
				TopNotes:    []string{"Ginger", "Spices"},
				MiddleNotes: []string{"Tobacco Leaf", "Cacao"},
				BaseNotes:   []string{"Oak", "Vanilla"},
				Longevity:   88,
				Sillage:     domain.SillageModerate,
				Occasions:   []string{"Evening ✨", "Formal 👔"},
			},
		},
	}
}

// StarterBundles returns the promotional bundles offered at startup
func StarterBundles() []domain.Bundle {
	return []domain.Bundle{
		{
			ID:            "elite-duo",
			Title:         "The Elite Duo",
			ProductIDs:    []string{"starborn", "cool-current"},
			BundlePrice:   4000,
			OriginalPrice: 4500,
			DiscountText:  "Save Rs. 500 + FREE SHIPPING",
			Type:          domain.BundleDuo,
			Badge:         "Popular",
			Description:   "Select two for the ultimate night/day rotation. Includes Free Nationwide Delivery.",
		},
	}
}
