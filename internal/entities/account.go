package entities

import "time"

// Account is a registered identity. The password hash never leaves the server.
type Account struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// PublicAccount is the subset of Account fields that may be sent to clients.
type PublicAccount struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Public strips everything but id and username.
func (a *Account) Public() *PublicAccount {
	if a == nil {
		return nil
	}
	return &PublicAccount{ID: a.ID, Username: a.Username}
}
