package dto

type HealthResponse struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"modelsLoaded"`
}

type RootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
