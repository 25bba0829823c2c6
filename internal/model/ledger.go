package model

import "time"

type Component string

const (
	ComponentProperty   Component = "property"
	ComponentContractor Component = "contractor"
	ComponentProject    Component = "project"
	ComponentAllowance  Component = "allowance"
)

// LedgerEntry is one committed transaction. Height is assigned by the store and
// strictly increases; entries are never updated or deleted.
type LedgerEntry struct {
	Height    int64     `gorm:"primaryKey;autoIncrement" json:"height"`
	TxID      string    `gorm:"size:36;not null;uniqueIndex" json:"tx_id"`
	Component Component `gorm:"size:32;not null;index" json:"component"`
	Operation string    `gorm:"size:64;not null" json:"operation"`
	Caller    Principal `gorm:"size:128;not null;index" json:"caller"`
	Subject   string    `gorm:"size:512;not null" json:"subject"`
	Payload   string    `gorm:"type:text" json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }

// Transaction describes a mutating operation before it is appended to the ledger.
type Transaction struct {
	Component Component
	Operation string
	Caller    Principal
	Subject   string
	Args      any
}
