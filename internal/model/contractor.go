package model

import "time"

const (
	MinRating = 0
	MaxRating = 5
)

type Contractor struct {
	ID                string    `gorm:"primaryKey;size:128" json:"contractor_id"`
	Name              string    `gorm:"not null" json:"name"`
	Address           Principal `gorm:"size:128;not null;index" json:"address"`
	Specialties       []string  `gorm:"serializer:json;not null" json:"specialties"`
	LicenseNumber     string    `gorm:"not null" json:"license_number"`
	InsuranceVerified bool      `gorm:"not null" json:"insurance_verified"`
	Verified          bool      `gorm:"not null" json:"verified"`
	Rating            int       `gorm:"not null" json:"rating"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Contractor) TableName() string { return "contractors" }

// AssignmentKey identifies the engagement of one contractor on one project.
type AssignmentKey struct {
	ContractorID string
	ProjectID    string
}

func (k AssignmentKey) String() string {
	return k.ContractorID + "/" + k.ProjectID
}

type ContractorAssignment struct {
	ContractorID      string    `gorm:"primaryKey;size:128" json:"contractor_id"`
	ProjectID         string    `gorm:"primaryKey;size:128" json:"project_id"`
	Assigned          bool      `gorm:"not null" json:"assigned"`
	Completed         bool      `gorm:"not null" json:"completed"`
	PerformanceRating int       `gorm:"not null" json:"performance_rating"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (ContractorAssignment) TableName() string { return "contractor_assignments" }

func (a ContractorAssignment) Key() AssignmentKey {
	return AssignmentKey{ContractorID: a.ContractorID, ProjectID: a.ProjectID}
}

// SmoothRating folds a new performance score into the running contractor rating.
// The first score is taken as is, later ones are averaged with the current value
// and rounded down.
func SmoothRating(current, score int) int {
	if current == 0 {
		return score
	}
	return (current + score) / 2
}
