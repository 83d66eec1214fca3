package models

import "time"

// Project is a contract ledger entry. Progress is a flat mean over every
// task in the project, written back by the progress synchronizer.
type Project struct {
	ProjectID        uint       `gorm:"primaryKey;autoIncrement" json:"project_id"`
	ContractNo       string     `gorm:"size:64;uniqueIndex" json:"contract_no"`
	ContractName     string     `gorm:"size:255;not null" json:"contract_name"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	ContractAmount   float64    `gorm:"default:0" json:"contract_amount"`
	PaymentAmount    float64    `gorm:"default:0" json:"payment_amount"`
	Progress         int        `gorm:"default:0" json:"progress"`
	LeaderID         uint       `json:"leader_id"`
	DeptID           uint       `gorm:"index" json:"dept_id"`
	ProjectType      string     `gorm:"size:32" json:"project_type"`
	SettlementStatus string     `gorm:"size:32" json:"settlement_status"`
	IsSigned         string     `gorm:"size:16" json:"is_signed"`
	Remark           string     `gorm:"type:text" json:"remark"`
	CreatedBy        uint       `json:"created_by"`
	UpdatedBy        *uint      `json:"updated_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
