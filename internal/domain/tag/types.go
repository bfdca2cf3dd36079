package tag

// Tag labels media files; Count tracks how many files currently use it.
type Tag struct {
	ID      int64  `json:"id"`
	TagName string `json:"tagName"`
	Count   int    `json:"count"`
}
