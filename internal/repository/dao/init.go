package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&UserPermission{},
		&OTP{},
		&Location{},
		&Attendance{},
		&SerialCounter{},
	)
	if err != nil {
		return err
	}

	// Location names are unique case-insensitively; reserved slots carry an
	// empty identifier, so idempotency-key uniqueness only covers non-empty
	// values. Neither constraint is expressible through gorm tags.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uni_locations_name_lower ON locations (LOWER(name))`).Error; err != nil {
		return err
	}

	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uni_attendances_identifier ON attendances (identifier) WHERE identifier <> ''`).Error
}
