package dto

// ResourceForm is the multipart form body of create/update requests. The
// file part is read separately via FormFile.
type ResourceForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	Subject     string `form:"subject"`
	Level       string `form:"level"`
	Category    string `form:"category"`
}
