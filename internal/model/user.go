package model

import "time"

// User represents a registered account
type User struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // Never exposed in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// PublicProfile is the part of a user returned on login
type PublicProfile struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Profile returns the public view of the user
func (u *User) Profile() PublicProfile {
	return PublicProfile{FullName: u.FullName, Username: u.Username, Email: u.Email}
}

// SignupInput carries the raw signup form
type SignupInput struct {
	FullName        string `form:"full_name" json:"full_name"`
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Phone           string `form:"phone" json:"phone"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}
