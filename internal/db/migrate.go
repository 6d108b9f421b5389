package db

import (
	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Location{},
		&model.User{},
		&model.ProductCategory{},
		&model.ProductSubCategory{},
		&model.Product{},
		&model.Media{},
		&model.Review{},
		&model.Message{},
		&model.Notification{},
	}
}

// Migrate runs database migrations against the global connection
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB migrates the schema and seeds the category tree when empty
func MigrateDB(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedCategories(db); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

type seedCategory struct {
	name string
	icon string
	subs []string
}

var defaultCategories = []seedCategory{
	{name: "Sebze", icon: "/icons/vegetables.png", subs: []string{"Domates", "Pembe Domates", "Salatalık"}},
	{name: "Meyve", icon: "/icons/fruits.png", subs: []string{"Elma"}},
	{name: "Tahıl", icon: "/icons/grains.png", subs: []string{"Buğday"}},
	{name: "Baklagil", icon: "/icons/legumes.png", subs: []string{"Kuru Fasulye"}},
	{name: "Süt Ürünleri", icon: "/icons/dairy.png", subs: []string{"Peynir"}},
}

// SeedCategories inserts the base categories and subcategories. It is a no-op
// once any category exists.
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.ProductCategory{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	subCount := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, c := range defaultCategories {
			category := model.ProductCategory{Name: c.name, IconURL: c.icon}
			if err := tx.Create(&category).Error; err != nil {
				logger.Error("Failed to create category", err, map[string]interface{}{
					"category": c.name,
				})
				return err
			}

			for _, name := range c.subs {
				sub := model.ProductSubCategory{Name: name, CategoryID: category.ID}
				if err := tx.Create(&sub).Error; err != nil {
					logger.Error("Failed to create subcategory", err, map[string]interface{}{
						"subcategory": name,
					})
					return err
				}
				subCount++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"categories":    len(defaultCategories),
		"subcategories": subCount,
	})
	return nil
}
