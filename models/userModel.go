package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Fullname string `json:"fullname"`
	Email    string `json:"email" gorm:"uniqueIndex"`
	Phone    string `json:"phone"`
	Password string `json:"-"`
	Role     string `json:"role"`
}

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
