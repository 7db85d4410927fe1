package models

// Category id is a human-chosen slug ("durum", "icecek"); SortOrder drives
// the display order of the customer menu.
type Category struct {
	ID        string `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	Emoji     string `gorm:"type:varchar(10);default:'🍽️'" json:"emoji"`
	SortOrder int    `gorm:"not null;default:0" json:"sortOrder"`
}
