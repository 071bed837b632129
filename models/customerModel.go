package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is keyed for lookup by Email, which carries a unique index so that
// concurrent first checkouts with the same address resolve to one row.
type Customer struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Name       string    `json:"name" gorm:"size:255;not null"`
	Email      string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Phone      string    `json:"phone" gorm:"size:32"`
	CPF        string    `json:"cpf" gorm:"size:14"`
	ZipCode    string    `json:"zip_code" gorm:"size:16"`
	Street     string    `json:"street" gorm:"size:255"`
	Number     string    `json:"number" gorm:"size:32"`
	Complement string    `json:"complement" gorm:"size:255"`
	District   string    `json:"district" gorm:"size:128"`
	City       string    `json:"city" gorm:"size:128"`
	State      string    `json:"state" gorm:"size:64"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
