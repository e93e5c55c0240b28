package analyses

import "time"

// Record is the persisted shape of one analysis: the report plus the
// metadata the history view lists.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Score     int       `json:"score"`
	JDPresent bool      `json:"jdPresent"`
	FileName  string    `json:"fileName"`
	Report    Report    `json:"result"`
	CreatedAt time.Time `json:"createdAt"`
}
