package match

// Hit is one raw search result from the index backend, before score
// scaling. Field tags follow the backend wire shape so the transport can
// decode hits directly.
type Hit struct {
	ID     string   `json:"_id"`
	Score  float64  `json:"_score"`
	Fields Metadata `json:"fields"`
}
