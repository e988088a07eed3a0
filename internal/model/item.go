package model

import "time"

// Item represents a posted material listing with a processing lifecycle.
type Item struct {
	ID                     int64      `json:"id"`
	Title                  string     `json:"title"`
	Description            string     `json:"description,omitempty"`
	Category               string     `json:"category"`
	Lat                    float64    `json:"lat"`
	Lng                    float64    `json:"lng"`
	Address                string     `json:"address,omitempty"`
	OwnerID                int64      `json:"ownerId"`
	Images                 []string   `json:"images"`
	ProcessingState        string     `json:"processingState"`
	ValidatedBy            *int64     `json:"validatedBy,omitempty"`
	ValidationChecklist    []string   `json:"validationChecklist,omitempty"`
	ValidationObservations string     `json:"validationObservations,omitempty"`
	ValidationDate         *time.Time `json:"validationDate,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
	DeletedAt              *time.Time `json:"deletedAt,omitempty"`

	// Joined field (not always populated).
	OwnerName string `json:"ownerName,omitempty"`
}

// Processing states. Items only move forward: unprocessed → in_process →
// baled → validated. No operation currently sets in_process; the state is
// kept so existing data and future workflows can use it.
const (
	StateUnprocessed = "unprocessed"
	StateInProcess   = "in_process"
	StateBaled       = "baled"
	StateValidated   = "validated"
)

// Material categories.
const (
	CategoryPlastic    = "plastic"
	CategoryPaper      = "paper"
	CategoryGlass      = "glass"
	CategoryMetal      = "metal"
	CategoryTextile    = "textile"
	CategoryElectronic = "electronic"
	CategoryOther      = "other"
)

var categories = map[string]bool{
	CategoryPlastic:    true,
	CategoryPaper:      true,
	CategoryGlass:      true,
	CategoryMetal:      true,
	CategoryTextile:    true,
	CategoryElectronic: true,
	CategoryOther:      true,
}

// ValidCategory reports whether category is one of the known material types.
func ValidCategory(category string) bool {
	return categories[category]
}

// CanBale reports whether an item in the given state may be marked as baled.
// Baling is allowed from any pre-baled state; passing through in_process is
// not required.
func CanBale(state string) bool {
	return state == StateUnprocessed || state == StateInProcess
}

// MaxImages is the maximum number of photos per item.
const MaxImages = 5

// MaxObservations is the character limit for validation observations and
// rating comments.
const MaxObservations = 500

// Checklist identifiers required to validate a baled material. Validation
// accepts exactly these four, no more and no fewer.
const (
	ChecklistCleanliness = "cleanliness"
	ChecklistHomogeneity = "homogeneity"
	ChecklistCompaction  = "compaction"
	ChecklistLabeling    = "labeling"
)

// RequiredChecklist lists the checklist identifiers in canonical order.
var RequiredChecklist = []string{
	ChecklistCleanliness,
	ChecklistHomogeneity,
	ChecklistCompaction,
	ChecklistLabeling,
}
