package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Member{},
		&Table{},
		&Session{},
		&SessionPlayer{},
		&Product{},
		&StockMovement{},
		&Sale{},
		&Shift{},
	)
}
