package model

import "time"

type ProjectStatus string

const (
	ProjectStatusPending  ProjectStatus = "pending"
	ProjectStatusApproved ProjectStatus = "approved"
)

type Project struct {
	ID          string        `gorm:"primaryKey;size:128" json:"project_id"`
	PropertyID  string        `gorm:"size:128;not null;index" json:"property_id"`
	Tenant      Principal     `gorm:"size:128;not null;index" json:"tenant"`
	Landlord    Principal     `gorm:"size:128;not null;index" json:"landlord"`
	Description string        `gorm:"not null" json:"description"`
	Status      ProjectStatus `gorm:"size:16;not null" json:"status"`
	StartDate   int64         `gorm:"not null" json:"start_date"`
	EndDate     int64         `gorm:"not null" json:"end_date"`
	Approved    bool          `gorm:"not null" json:"approved"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// IsParty reports whether the principal is the tenant or the landlord of the project.
func (p Project) IsParty(principal Principal) bool {
	return principal == p.Tenant || principal == p.Landlord
}

type ModificationKey struct {
	ProjectID      string
	ModificationID string
}

func (k ModificationKey) String() string {
	return k.ProjectID + "/" + k.ModificationID
}

type Modification struct {
	ProjectID      string    `gorm:"primaryKey;size:128" json:"project_id"`
	ModificationID string    `gorm:"primaryKey;size:128" json:"modification_id"`
	Description    string    `gorm:"not null" json:"description"`
	Approved       bool      `gorm:"not null" json:"approved"`
	Completed      bool      `gorm:"not null" json:"completed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Modification) TableName() string { return "project_modifications" }

func (m Modification) Key() ModificationKey {
	return ModificationKey{ProjectID: m.ProjectID, ModificationID: m.ModificationID}
}
