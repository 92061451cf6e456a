package domain

import "time"

// AdminAuditLog records one admin write for the operator trail. Appended
// best-effort to the remote store only.
type AdminAuditLog struct {
	ID        int64     `json:"id,string"`
	OprName   string    `json:"opr_name"`
	OprIp     string    `json:"opr_ip"`
	OptAction string    `json:"opt_action"`
	OptDesc   string    `json:"opt_desc"`
	OptTime   time.Time `json:"opt_time"`
}

// TableName Specify table name
func (AdminAuditLog) TableName() string {
	return "admin_audit_log"
}
