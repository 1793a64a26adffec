// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

// UploadResponse is returned by POST /upload. The field name matches what
// existing viewer clients read.
type UploadResponse struct {
	Message  string `json:"message,omitempty"`
	FilePath string `json:"filePath"`
}

// GroupMembers is the data of GET /api/v1/groups/{id}.
type GroupMembers struct {
	GroupID string   `json:"groupId"`
	Members []string `json:"members"`
	Count   int      `json:"count"`
}

// SessionStats is the data of GET /api/v1/stats.
type SessionStats struct {
	Connections   int     `json:"connections"`
	Groups        int     `json:"groups"`
	HubClients    int     `json:"hub_clients"`
	UploadStore   string  `json:"upload_backend"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// HealthStatus is the data of the health endpoints.
type HealthStatus struct {
	Alive         bool    `json:"alive"`
	Ready         bool    `json:"ready"`
	SessionsReady bool    `json:"sessions_ready"`
	StorageReady  bool    `json:"storage_ready"`
	Uptime        float64 `json:"uptime"`
}
