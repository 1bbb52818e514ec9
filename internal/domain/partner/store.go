package partner

import (
	"github.com/drump2112/SWP-sub001/internal/domain/shared"
)

// Store represents a fuel station in the chain
type Store struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(255);not null"`
	Address  string `gorm:"type:text"`
	Phone    string `gorm:"type:varchar(20)"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}
