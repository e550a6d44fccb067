package model

const (
	SyncOpFetch  = "fetch"
	SyncOpCommit = "commit"
	SyncOpPassed = "passed"
)

// swagger:model SyncLog
// SyncLog 记录每一次与 LMS 的同步请求结果
type SyncLog struct {
	BaseModel

	SessionID  string `gorm:"index;type:varchar(36)" json:"sessionId"`
	AttemptID  string `gorm:"index;type:varchar(128)" json:"attemptId"`
	Version    string `gorm:"type:varchar(8)" json:"version"`
	Operation  string `gorm:"type:varchar(16)" json:"operation"`
	Success    bool   `gorm:"default:false" json:"success"`
	Diagnostic string `gorm:"type:text" json:"diagnostic"`
	Entries    int    `gorm:"default:0" json:"entries"` // activity report 条数
	DurationMS int64  `json:"durationMs"`
}

func (SyncLog) TableName() string {
	return "rte_sync_logs"
}
