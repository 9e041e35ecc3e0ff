package notes

import "time"

type Note struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"not null;type:text"`
	IPAddress string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Note) TableName() string {
	return "notes"
}
