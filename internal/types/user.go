package types

// Response is the generic success/error envelope.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Operation successful"`
	Error   string `json:"error,omitempty" example:"Resource not found"`
}

// IDResponse is returned by operations that create a resource.
type IDResponse struct {
	Success bool   `json:"success" example:"true"`
	ID      int64  `json:"id" example:"7"`
	Message string `json:"message,omitempty"`
}
