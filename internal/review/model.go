package review

type Review struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// CreateReviewRequest payload of creation.
// swagger:model CreateReviewRequest
type CreateReviewRequest struct {
	UserID  string `json:"user_id"`
	Rating  int    `json:"rating"  example:"4"`
	Comment string `json:"comment"`
}
