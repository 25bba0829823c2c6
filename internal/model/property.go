package model

import "time"

const PropertyConditionUnverified = "unverified"

type Property struct {
	ID                   string    `gorm:"primaryKey;size:128" json:"property_id"`
	Owner                Principal `gorm:"size:128;not null;index" json:"owner"`
	PhysicalAddress      string    `gorm:"not null" json:"physical_address"`
	Condition            string    `gorm:"not null" json:"condition"`
	LastInspectionHeight int64     `gorm:"not null" json:"last_inspection_height"`
	Verified             bool      `gorm:"not null" json:"verified"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (Property) TableName() string { return "properties" }
