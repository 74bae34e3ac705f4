package models

import "time"

// Session binds one uploaded workbook snapshot to an ID. Each session owns
// exactly one workbook; re-uploading replaces the snapshot wholesale.
type Session struct {
	ID         string    `json:"id"`
	Workbook   *Workbook `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}
