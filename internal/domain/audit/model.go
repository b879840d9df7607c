package audit

import "time"

// FieldChange is one audited field mutation, old value to new.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// EntryAudit records one edit made to a tally log entry.
type EntryAudit struct {
	ID       int64                  `json:"id"`
	EntryID  string                 `json:"entry_id"`
	Actor    string                 `json:"actor"`
	EditedAt time.Time              `json:"edited_at"`
	Changes  map[string]FieldChange `json:"changes"`
}
