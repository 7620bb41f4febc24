package domain

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string    `gorm:"size:254" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser  bool      `gorm:"not null;default:false" json:"is_superuser"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) Role() string {
	if u.IsStaff || u.IsSuperuser {
		return "admin"
	}
	return "user"
}

// RefreshToken is a refresh token on file. Only its hash is stored.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey"`
	JTI       string     `gorm:"uniqueIndex;size:36;not null"`
	UserID    uint       `gorm:"index;not null"`
	TokenHash string     `gorm:"size:64;not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (t *RefreshToken) Revoked() bool { return t.RevokedAt != nil }
