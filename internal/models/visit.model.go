package models

import (
	"time"

	"github.com/google/uuid"
)

// VisitRecord counts one user's visits to one restaurant.
type VisitRecord struct {
	BaseModel
	UserID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_visit_records_user_restaurant,priority:1" json:"userId"`
	RestaurantID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_visit_records_user_restaurant,priority:2;index" json:"restaurantId"`
	Restaurant    Restaurant `gorm:"foreignKey:RestaurantID"                                                        json:"restaurant"`
	VisitCount    int        `gorm:"type:int;not null;default:0"                                                    json:"visitCount"`
	LastVisitDate time.Time  `gorm:"type:date;not null"                                                             json:"lastVisitDate"`
}

// CuisineStat counts one user's visits to restaurants tagged with one cuisine.
type CuisineStat struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cuisine_stats_user_cuisine,priority:1" json:"userId"`
	CuisineID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cuisine_stats_user_cuisine,priority:2" json:"cuisineId"`
	Cuisine    Cuisine   `gorm:"foreignKey:CuisineID"                                                     json:"cuisine"`
	VisitCount int       `gorm:"type:int;not null;default:0"                                              json:"visitCount"`
}
