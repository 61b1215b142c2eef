package dto

import "time"

type SessionMessageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionInfoResponse struct {
	Id           string              `json:"id"`
	Messages     []SessionMessageDTO `json:"messages"`
	CreatedAt    time.Time           `json:"createdAt"`
	LastAccess   time.Time           `json:"lastAccess"`
	MessageCount int                 `json:"messageCount"`
}

type SessionStatsResponse struct {
	ActiveSessions int       `json:"activeSessions"`
	Timestamp      time.Time `json:"timestamp"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
