package models

import (
	"strings"

	"gorm.io/gorm"
)

type Cuisine struct {
	BaseModel
	Name string `gorm:"type:text;not null;uniqueIndex" json:"name"`
}

func (c *Cuisine) BeforeSave(tx *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
