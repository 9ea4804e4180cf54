package model

import "time"

// ReviewRecord is the durable archive row for one completed turn. Records
// are published to the broker after the turn finishes and persisted by the
// archive worker; the request path never writes MySQL directly.
type ReviewRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"size:64;not null;index" json:"session_id"`
	Kind      string    `gorm:"size:16;not null" json:"kind"` // "review" or "chat"
	Language  string    `gorm:"size:32" json:"language,omitempty"`
	Severity  string    `gorm:"size:16;not null" json:"severity"`
	Input     string    `gorm:"type:text;not null" json:"input"`
	Output    string    `gorm:"type:text;not null" json:"output"`
	CreatedAt time.Time `json:"created_at"`
}
