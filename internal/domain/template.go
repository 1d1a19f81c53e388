package domain

import "time"

// Template kinds served by the catalog.
const (
	TemplateParty     = "party"
	TemplateCostume   = "costume"
	TemplateAttribute = "attribute"
)

// Template is a catalog row feature pages render into their forms: a party
// theme, a costume preset, or a recipient attribute chip.
type Template struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Prompt    string    `json:"prompt"` // prompt fragment injected into the provider call
	Popular   bool      `json:"popular"`
	CreatedAt time.Time `json:"createdAt"`
}
