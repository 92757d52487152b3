// Database model for accounts
package db

import "time"

// User is a registered account. PasswordHash is a bcrypt hash.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:200;not null"`
	PasswordHash string    `json:"-" gorm:"size:100;not null"`
	IsAdmin      bool      `json:"is_admin" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
