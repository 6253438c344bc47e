package web

import (
	"time"

	"github.com/genesisgates/genesis/pkg/access"
	"github.com/genesisgates/genesis/pkg/config"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/proto"
)

type userResponse struct {
	ID        int64          `json:"id"`
	Email     string         `json:"email"`
	Verified  bool           `json:"verified"`
	Plan      proto.Plan     `json:"plan"`
	Features  proto.Features `json:"features"`
	CreatedAt time.Time      `json:"created_at"`
}

func newUserResponse(u proto.User, cfg *config.Config) userResponse {
	return userResponse{
		ID:        u.ID(),
		Email:     u.Email(),
		Verified:  u.IsVerified(),
		Plan:      u.Plan(),
		Features:  proto.PlanFeatures(u.Plan(), cfg.Plans.FreeTreeLimit),
		CreatedAt: u.CreatedAt(),
	}
}

type treeResponse struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	OwnerID     int64               `json:"owner_id"`
	Public      bool                `json:"public"`
	CreatedAt   time.Time           `json:"created_at"`
	Access      *access.AccessLevel `json:"access,omitempty"`
	PersonCount *int64              `json:"person_count,omitempty"`
}

func newTreeResponse(t proto.Tree) treeResponse {
	return treeResponse{
		ID:          t.ID(),
		Name:        t.Name(),
		Description: t.Description(),
		OwnerID:     t.OwnerID(),
		Public:      t.IsPublic(),
		CreatedAt:   t.CreatedAt(),
	}
}

func newSummaryResponses(ss []proto.TreeSummary) []treeResponse {
	out := make([]treeResponse, 0, len(ss))
	for _, s := range ss {
		t := newTreeResponse(s.Tree)
		count := s.PersonCount
		t.PersonCount = &count
		out = append(out, t)
	}
	return out
}

type personResponse struct {
	ID        int64     `json:"id"`
	TreeID    int64     `json:"tree_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	BirthDate string    `json:"birth_date,omitempty"`
	DeathDate string    `json:"death_date,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	Biography string    `json:"biography,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newPersonResponse(p models.Person) personResponse {
	return personResponse{
		ID:        p.ID,
		TreeID:    p.TreeID,
		FirstName: p.FirstName,
		LastName:  p.LastName.String,
		BirthDate: p.BirthDate.String,
		DeathDate: p.DeathDate.String,
		Gender:    p.Gender.String,
		Biography: p.Biography.String,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type relationshipResponse struct {
	ID              int64     `json:"id"`
	TreeID          int64     `json:"tree_id"`
	PersonID        int64     `json:"person_id"`
	RelatedPersonID int64     `json:"related_person_id"`
	RelationType    string    `json:"relation_type"`
	CreatedAt       time.Time `json:"created_at"`
}

func newRelationshipResponse(r models.Relationship) relationshipResponse {
	return relationshipResponse{
		ID:              r.ID,
		TreeID:          r.TreeID,
		PersonID:        r.PersonID,
		RelatedPersonID: r.RelatedPersonID,
		RelationType:    r.RelationType,
		CreatedAt:       r.CreatedAt,
	}
}
