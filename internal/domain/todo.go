package domain

import "time"

const TodoTitleMax = 50

type Todo struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:50;not null"`
	Description string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"index"`
	UserID      uint      `gorm:"index;not null"`
}
