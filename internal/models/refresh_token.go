package models

import "time"

// RefreshToken is one issued refresh credential. Tokens are rotated on every
// refresh: the presented row is revoked and a new one is created.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index" json:"userId"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Revoke marks the token unusable from now on.
func (t *RefreshToken) Revoke() {
	t.IsRevoked = true
	t.ExpiresAt = time.Now()
}
