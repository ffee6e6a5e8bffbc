package models

// BackendInfo describes one configured inventory backend for API consumers.
type BackendInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
}
