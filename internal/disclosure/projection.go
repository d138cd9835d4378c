package disclosure

import (
	"time"

	"richideia/internal/catalog"
)

// Projection is what the presentation layer receives for an idea. Partial
// projections must never carry the protected description; the nda_required
// flag tells the client why.
type Projection struct {
	ID            string    `json:"id"`
	CreatorID     string    `json:"creator_id"`
	Title         string    `json:"title"`
	ProblemSolved string    `json:"problem_solved"`
	Sector        string    `json:"sector"`
	PriceCents    int64     `json:"price_cents"`
	MaturityLevel string    `json:"maturity_level"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	Description   string    `json:"description,omitempty"`
	NDARequired   bool      `json:"nda_required"`
}

// Project builds the projection matching the access verdict.
func Project(idea catalog.Idea, access Access) Projection {
	p := Projection{
		ID:            idea.ID.String(),
		CreatorID:     idea.CreatorID.String(),
		Title:         idea.Title,
		ProblemSolved: idea.ProblemSolved,
		Sector:        idea.Sector,
		PriceCents:    idea.PriceCents,
		MaturityLevel: idea.MaturityLevel,
		Status:        string(idea.Status),
		CreatedAt:     idea.CreatedAt,
	}
	if access == AccessFull {
		p.Description = idea.Description
		return p
	}
	p.NDARequired = true
	return p
}
