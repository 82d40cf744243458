package db

import _ "embed"

//go:embed schema.sql
var Schema string

// tik statuses
const (
	STATUS_COMPLETED = "completed"
	STATUS_MISMATCH  = "mismatch"
)
