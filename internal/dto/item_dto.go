package dto

type ItemCreate struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ItemUpdate carries partial updates; nil fields are left unchanged.
type ItemUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}
