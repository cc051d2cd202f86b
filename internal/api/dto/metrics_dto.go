package dto

import "github.com/Hoddity/virt/internal/metrics"

// MetricsResponse combines the application and system snapshots
type MetricsResponse struct {
	Application metrics.ApplicationSnapshot `json:"application"`
	System      metrics.SystemSnapshot      `json:"system"`
}

// UploadResponse confirms a stored file
type UploadResponse struct {
	URL string `json:"url"`
}
