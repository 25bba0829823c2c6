package model

import "time"

type AllowanceStatus string

const (
	AllowanceStatusActive AllowanceStatus = "active"
	AllowanceStatusClosed AllowanceStatus = "closed"
)

// Allowance is the escrowed fund pool of a project. TotalAmount always equals
// ReleasedAmount + RemainingAmount.
type Allowance struct {
	ProjectID       string          `gorm:"primaryKey;size:128" json:"project_id"`
	Landlord        Principal       `gorm:"size:128;not null;index" json:"landlord"`
	Tenant          Principal       `gorm:"size:128;not null;index" json:"tenant"`
	TotalAmount     int64           `gorm:"not null" json:"total_amount"`
	ReleasedAmount  int64           `gorm:"not null" json:"released_amount"`
	RemainingAmount int64           `gorm:"not null" json:"remaining_amount"`
	Status          AllowanceStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Allowance) TableName() string { return "allowances" }

func (a Allowance) IsClosed() bool {
	return a.Status == AllowanceStatusClosed
}

// Release moves amount from the remaining balance to the released one.
func (a *Allowance) Release(amount int64) {
	a.ReleasedAmount += amount
	a.RemainingAmount -= amount
}

func (a Allowance) Balanced() bool {
	return a.TotalAmount == a.ReleasedAmount+a.RemainingAmount
}

type MilestoneKey struct {
	ProjectID   string
	MilestoneID string
}

func (k MilestoneKey) String() string {
	return k.ProjectID + "/" + k.MilestoneID
}

type Milestone struct {
	ProjectID   string    `gorm:"primaryKey;size:128" json:"project_id"`
	MilestoneID string    `gorm:"primaryKey;size:128" json:"milestone_id"`
	Description string    `gorm:"not null" json:"description"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Completed   bool      `gorm:"not null" json:"completed"`
	Paid        bool      `gorm:"not null" json:"paid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Milestone) TableName() string { return "allowance_milestones" }

func (m Milestone) Key() MilestoneKey {
	return MilestoneKey{ProjectID: m.ProjectID, MilestoneID: m.MilestoneID}
}

// AllowanceStatement is the exported view of an allowance with its milestones.
type AllowanceStatement struct {
	Allowance   Allowance
	Milestones  []Milestone
	GeneratedAt time.Time
	Height      int64
}
