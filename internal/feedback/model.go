package feedback

import "time"

type Feedback struct {
	ID           string    `json:"feedback_id"`
	ProductID    string    `json:"product_id"`
	UserID       string    `json:"user_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	Submitted    time.Time `json:"date_submitted"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
}

// SubmitRequest is the payload for posting a review.
// swagger:model SubmitFeedbackRequest
type SubmitRequest struct {
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"  example:"5"`
	Comment   string `json:"comment" example:"Exactly as described"`
}
