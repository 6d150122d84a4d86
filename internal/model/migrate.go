package model

import "gorm.io/gorm"

// SetupJoinTables registers the custom many-to-many join models. It must run
// on every connection before the relations are preloaded or migrated.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&RideEvent{}, "Participants", &EventParticipant{}); err != nil {
		return err
	}
	return db.SetupJoinTable(&Post{}, "Likes", &PostLike{})
}

// AutoMigrate runs GORM auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := SetupJoinTables(db); err != nil {
		return err
	}
	return db.AutoMigrate(
		&User{},
		&Zone{},
		&Rider{},
		&MembershipApplication{},
		&RideEvent{},
		&EventParticipant{},
		&EventPhoto{},
		&Post{},
		&PostLike{},
		&BenefitCategory{},
		&Benefit{},
		&BenefitUsage{},
		&Notice{},
	)
}
