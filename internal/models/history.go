package models

// HistoryRecord is a schema-less caption history document.
type HistoryRecord map[string]interface{}
