package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/aakashdp/labadmin_backend/internal/config"
	"github.com/aakashdp/labadmin_backend/internal/models"
	"github.com/aakashdp/labadmin_backend/internal/utils"
)

// SeedAdmin creates the primary admin account on first start. The account
// gets a real bcrypt hash like any other user; its email is the sentinel the
// user controller refuses to delete.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		Role:         models.RoleAdmin,
		PasswordHash: hashed,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded initial admin:", cfg.AdminEmail)
	return nil
}
