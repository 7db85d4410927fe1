package models

import "time"

// Customer is identified by its phone number; the phone never changes after
// registration, only name and address can be edited.
type Customer struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"lastName"`
	Phone     string    `gorm:"type:varchar(20);unique;not null" json:"phone"`
	Address   string    `gorm:"type:text;not null" json:"address"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
