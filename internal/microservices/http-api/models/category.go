package models

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

type Category struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Slug        string  `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	Description *string `json:"description,omitempty" gorm:"type:text"`
}

func (Category) TableName() string {
	return "categories"
}

// BeforeSave derives the slug from the name when none was given
func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of non alphanumerics into a dash.
func Slugify(s string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(slug, "-")
}
