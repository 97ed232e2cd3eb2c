package driving

import "context"

// Status summarises the running service.
type Status struct {
	StoreBackend        string   `json:"store_backend"`
	DistanceMetric      string   `json:"distance_metric"`
	DocumentCount       int      `json:"document_count"`
	EmbeddingModel      string   `json:"embedding_model"`
	EmbeddingDimensions int      `json:"embedding_dimensions"`
	GenerationModel     string   `json:"generation_model,omitempty"`
	GenerationAvailable bool     `json:"generation_available"`
	AvailableModels     []string `json:"available_models,omitempty"`
}

// StatusService reports on configured providers and the store.
type StatusService interface {
	// Status gathers the current status. Provider probes never fail the call.
	Status(ctx context.Context) (*Status, error)
}
