package api

// Listing is the decoded response of the list endpoint
type Listing struct {
	GifCount   int      `json:"gif_count"`
	Gifs       []string `json:"gifs"`
	HTTP       []string `json:"http"`
	ImageCount int      `json:"image_count"`
	Images     []string `json:"images"`
}

// RandomLink is the decoded response of the random endpoint
type RandomLink struct {
	URL string `json:"url"`
}

// UploadResponse is the body returned by the upload endpoint
type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
