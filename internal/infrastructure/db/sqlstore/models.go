package sqlstore

import "time"

type userRow struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"uniqueIndex;not null;size:320"`
	PasswordHash string    `gorm:"not null"`
	RoleID       int       `gorm:"not null;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

type roleRow struct {
	ID   int    `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"not null"`
}

func (roleRow) TableName() string { return "roles" }

type auditRow struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Type       string    `gorm:"not null;index"`
	Email      string    `gorm:"index"`
	UserID     string    `gorm:"index"`
	ActorID    string
	Reason     string
	OccurredAt time.Time `gorm:"not null;index"`
}

func (auditRow) TableName() string { return "auth_events" }
