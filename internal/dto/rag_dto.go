package dto

type ChatRequest struct {
	Query     string `json:"query" validate:"required"`
	TopK      *int   `json:"topK,omitempty"`
	SessionId string `json:"sessionId,omitempty" validate:"omitempty,max=128"`
}

type ChatResponse struct {
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	SessionId string   `json:"sessionId"`
}

type IndexResponse struct {
	Status        string `json:"status"`
	Filename      string `json:"filename"`
	ChunksIndexed int    `json:"chunksIndexed"`
	Message       string `json:"message"`
}
