package models

import (
	"time"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	FullName    string    `gorm:"default:New User" json:"fullName"`
	Email       string    `gorm:"unique" json:"email"`
	PhoneNumber string    `gorm:"type:varchar(11)" json:"phoneNumber"`
	Role        int       `gorm:"default:0" json:"role"` // 0 user, 1 superadmin, 2 admin, 3 lễ tân
	Status      int       `gorm:"default:1" json:"status"`
}
