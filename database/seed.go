package database

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/durumcu/durumcu-app/config"
	"github.com/durumcu/durumcu-app/models"
	"github.com/durumcu/durumcu-app/utils"
)

// Migrate creates the durable tables. Verification codes are deliberately
// not migrated, they live only in memory.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Customer{},
		&models.Category{},
		&models.MenuItem{},
		&models.Order{},
		&models.Admin{},
	)
}

// Seed fills empty catalog tables with the shop's default menu and creates
// the bootstrap admin account when none exists. Safe to run on every boot.
func Seed(db *gorm.DB, cfg *config.Config) error {
	if err := seedCategories(db); err != nil {
		return err
	}
	if err := seedMenu(db); err != nil {
		return err
	}
	return seedAdmin(db, cfg)
}

func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{ID: "durum", Name: "Dürümler", Emoji: "🌯", SortOrder: 1},
		{ID: "porsiyon", Name: "Porsiyonlar", Emoji: "🍖", SortOrder: 2},
		{ID: "icecek", Name: "İçecekler", Emoji: "🥤", SortOrder: 3},
		{ID: "ekstra", Name: "Ekstralar", Emoji: "🍟", SortOrder: 4},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}
	utils.InfoLogger.Println("Default categories seeded")
	return nil
}

func seedMenu(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []models.MenuItem{
		{Name: "Tavuk Dürüm", Description: "Izgara tavuk, domates, marul, soğan, özel sos", Price: 85, CategoryID: "durum", Image: "🌯", Available: true},
		{Name: "Et Dürüm", Description: "Dana eti, domates, marul, soğan, özel sos", Price: 110, CategoryID: "durum", Image: "🌯", Available: true},
		{Name: "Köfte Dürüm", Description: "Izgara köfte, domates, marul, soğan, özel sos", Price: 95, CategoryID: "durum", Image: "🌯", Available: true},
		{Name: "Adana Dürüm", Description: "Acılı Adana kebap, domates, soğan, maydanoz", Price: 105, CategoryID: "durum", Image: "🌯", Available: true},
		{Name: "Karışık Dürüm", Description: "Tavuk + et karışık, tüm malzemeler", Price: 120, CategoryID: "durum", Image: "🌯", Available: true},
		{Name: "Lahmacun Dürüm", Description: "Lahmacun içinde döner, yeşillik", Price: 90, CategoryID: "durum", Image: "🌯", Available: true},
		{Name: "Tavuk Porsiyon", Description: "Izgara tavuk göğsü, pilav, salata ile", Price: 130, CategoryID: "porsiyon", Image: "🍗", Available: true},
		{Name: "Et Porsiyon", Description: "Dana ızgara, pilav, salata ile", Price: 160, CategoryID: "porsiyon", Image: "🥩", Available: true},
		{Name: "Köfte Porsiyon", Description: "6 adet ızgara köfte, pilav, salata ile", Price: 140, CategoryID: "porsiyon", Image: "🍖", Available: true},
		{Name: "Adana Porsiyon", Description: "Adana kebap, pilav, közlenmiş sebze", Price: 150, CategoryID: "porsiyon", Image: "🍖", Available: true},
		{Name: "Ayran", Description: "Taze ayran 300ml", Price: 15, CategoryID: "icecek", Image: "🥛", Available: true},
		{Name: "Kola", Description: "Coca Cola 330ml", Price: 25, CategoryID: "icecek", Image: "🥤", Available: true},
		{Name: "Fanta", Description: "Fanta 330ml", Price: 25, CategoryID: "icecek", Image: "🥤", Available: true},
		{Name: "Sprite", Description: "Sprite 330ml", Price: 25, CategoryID: "icecek", Image: "🥤", Available: true},
		{Name: "Su", Description: "Su 500ml", Price: 10, CategoryID: "icecek", Image: "💧", Available: true},
		{Name: "Şalgam", Description: "Acılı şalgam suyu 300ml", Price: 15, CategoryID: "icecek", Image: "🧃", Available: true},
		{Name: "Patates Kızartması", Description: "Çıtır patates kızartması", Price: 40, CategoryID: "ekstra", Image: "🍟", Available: true},
		{Name: "Közlenmiş Biber", Description: "Közde pişmiş sivri biber", Price: 15, CategoryID: "ekstra", Image: "🌶️", Available: true},
		{Name: "Közlenmiş Domates", Description: "Közde pişmiş domates", Price: 10, CategoryID: "ekstra", Image: "🍅", Available: true},
		{Name: "Ek Sos", Description: "Özel sos / Acı sos", Price: 5, CategoryID: "ekstra", Image: "🫙", Available: true},
	}
	if err := db.Create(&items).Error; err != nil {
		return err
	}
	utils.InfoLogger.Println("Default menu seeded")
	return nil
}

func seedAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Admin{
		Username: cfg.AdminUsername,
		Password: string(hashed),
		Role:     "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Bootstrap admin %q created", admin.Username)
	return nil
}
