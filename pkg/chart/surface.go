package chart

// Surface is a 2D drawing area on the page, identified by its element id
type Surface struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SurfaceResolver looks up drawing surfaces by element id
type SurfaceResolver interface {
	Surface(id string) (Surface, error)
}
