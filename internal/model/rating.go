package model

import "time"

// Rating is a per-item reputation signal from one user about the item's
// owner. RatedID is a snapshot of the owner at submission time and is never
// re-derived.
type Rating struct {
	ID                 int64     `json:"id"`
	ItemID             int64     `json:"itemId"`
	RaterID            int64     `json:"raterId"`
	RatedID            int64     `json:"ratedId"`
	MaterialQuality    int       `json:"materialQuality"`
	Punctuality        *int      `json:"punctuality,omitempty"`
	StandardCompliance *int      `json:"standardCompliance,omitempty"`
	Comment            string    `json:"comment,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`

	// Joined fields (not always populated).
	RaterName string `json:"raterName,omitempty"`
	ItemTitle string `json:"itemTitle,omitempty"`
}

// RatingAverages holds per-dimension reputation averages for a user.
// Each average divides by the total rating count with missing optional
// values counted as zero, so sparse optional dimensions pull the score
// down instead of being excluded. A dimension no rating ever supplied
// reports as 0.
type RatingAverages struct {
	MaterialQuality    float64 `json:"materialQuality"`
	Punctuality        float64 `json:"punctuality"`
	StandardCompliance float64 `json:"standardCompliance"`
}

// ValidScore reports whether v is a legal 1–5 rating value.
func ValidScore(v int) bool {
	return v >= 1 && v <= 5
}
