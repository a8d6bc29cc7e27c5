package dto

import "github.com/namsos-athenaeum/athenaeum/internal/models"

type ResultPage struct {
	Accepted bool
	Message  string
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToResultPage(d *models.Decision) ResultPage {
	return ResultPage{Accepted: d.Accepted, Message: d.Message}
}
