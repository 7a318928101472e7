// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Name         string   `json:"name" gorm:"size:120;not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;size:120;not null"`
	Phone        string   `json:"phone" gorm:"size:15;not null"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;default:'agent'"`
	Company      string   `json:"company" gorm:"size:200"`
	ReraNumber   string   `json:"rera_number" gorm:"size:50"`
	IsApproved   bool     `json:"is_approved" gorm:"default:false"`
	Photo        string   `json:"photo" gorm:"size:200"`

	// Relationships
	Properties []Property `json:"properties,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// CanPost reports whether the user may manage listings: approved agents
// and brokers, or any admin.
func (u *User) CanPost() bool {
	return u.IsApproved || u.Role == UserRoleAdmin
}
