package models

// MenuItem references a Category by slug. Image is either an emoji glyph or
// an /uploads URL, the clients treat it as opaque. Available hides the item
// from the customer listing without deleting order history.
type MenuItem struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Name        string   `gorm:"type:varchar(255);not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Price       float64  `gorm:"type:decimal(10,2);not null" json:"price"`
	CategoryID  string   `gorm:"type:varchar(50);not null;index" json:"category"`
	Category    Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Image       string   `gorm:"type:varchar(255)" json:"image"`
	// No gorm default here: a default tag makes gorm drop the zero value
	// false from the INSERT, so a row could never be created unavailable.
	// Writers set the field explicitly instead.
	Available bool `gorm:"not null" json:"available"`
}
