package models

// User is an operator account allowed to change the configuration and trigger polls.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
