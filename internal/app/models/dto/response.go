package dto

// IDResponse is the body returned by create/update endpoints.
type IDResponse struct {
	ID int64 `json:"id"`
}

// MessageResponse is a plain success message body.
type MessageResponse struct {
	Message string `json:"message"`
}
