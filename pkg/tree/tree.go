// Package tree turns the flat persons and relationships of a family tree
// into a nested parent to children structure.
package tree

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/genesisgates/genesis/pkg/db/models"
)

// ErrCycle is returned when parent relationships loop back on themselves.
var ErrCycle = errors.New("parent relationships form a cycle")

// CycleError names the person at which a parent cycle was detected.
type CycleError struct {
	PersonID int64
}

// Error implements error.
func (e *CycleError) Error() string {
	return fmt.Sprintf("%s at person %d", ErrCycle, e.PersonID)
}

// Unwrap returns ErrCycle.
func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// Node is a person with their children. A person with two parents appears
// once under each of them.
type Node struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name,omitempty"`
	BirthDate string  `json:"birth_date,omitempty"`
	DeathDate string  `json:"death_date,omitempty"`
	Gender    string  `json:"gender,omitempty"`
	Biography string  `json:"biography,omitempty"`
	Children  []*Node `json:"children"`
}

// Structure is the nested view of a tree alongside its flat rows.
type Structure struct {
	Roots         []*Node
	Persons       map[int64]models.Person
	Relationships []models.Relationship
}

// Person is the JSON form of a person in the flat persons map.
type Person struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
	DeathDate string `json:"death_date,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Biography string `json:"biography,omitempty"`
}

// Relationship is the JSON form of an edge in the flat relationships list.
type Relationship struct {
	ID              int64     `json:"id"`
	PersonID        int64     `json:"person_id"`
	RelatedPersonID int64     `json:"related_person_id"`
	RelationType    string    `json:"relation_type"`
	CreatedAt       time.Time `json:"created_at"`
}

// MarshalJSON encodes the roots together with every person keyed by id and
// every relationship, parent or not, in row order.
func (s Structure) MarshalJSON() ([]byte, error) {
	out := struct {
		Roots         []*Node          `json:"roots"`
		Persons       map[int64]Person `json:"persons"`
		Relationships []Relationship   `json:"relationships"`
	}{
		Roots:         s.Roots,
		Persons:       make(map[int64]Person, len(s.Persons)),
		Relationships: make([]Relationship, 0, len(s.Relationships)),
	}
	if out.Roots == nil {
		out.Roots = []*Node{}
	}

	for id, p := range s.Persons {
		out.Persons[id] = Person{
			ID:        p.ID,
			FirstName: p.FirstName,
			LastName:  p.LastName.String,
			BirthDate: p.BirthDate.String,
			DeathDate: p.DeathDate.String,
			Gender:    p.Gender.String,
			Biography: p.Biography.String,
		}
	}
	for _, r := range s.Relationships {
		out.Relationships = append(out.Relationships, Relationship{
			ID:              r.ID,
			PersonID:        r.PersonID,
			RelatedPersonID: r.RelatedPersonID,
			RelationType:    r.RelationType,
			CreatedAt:       r.CreatedAt,
		})
	}

	return json.Marshal(out)
}

// Build nests persons below their parents. Only "parent" relationships
// shape the nesting; every relationship is kept in the flat list. Roots are
// the persons nobody lists as their child, in the order of persons.
// Children follow the order of rels. Edges naming a person that is not in
// persons are ignored.
func Build(persons []models.Person, rels []models.Relationship) (*Structure, error) {
	s := &Structure{
		Roots:         []*Node{},
		Persons:       make(map[int64]models.Person, len(persons)),
		Relationships: rels,
	}
	if s.Relationships == nil {
		s.Relationships = []models.Relationship{}
	}

	for _, p := range persons {
		s.Persons[p.ID] = p
	}

	children := make(map[int64][]int64)
	hasParent := make(map[int64]bool)
	for _, r := range rels {
		if r.RelationType != models.RelationParent {
			continue
		}
		if _, ok := s.Persons[r.PersonID]; !ok {
			continue
		}
		if _, ok := s.Persons[r.RelatedPersonID]; !ok {
			continue
		}
		children[r.PersonID] = append(children[r.PersonID], r.RelatedPersonID)
		hasParent[r.RelatedPersonID] = true
	}

	b := builder{
		persons:  s.Persons,
		children: children,
		path:     make(map[int64]bool),
		seen:     make(map[int64]bool),
	}

	for _, p := range persons {
		if hasParent[p.ID] {
			continue
		}
		n, err := b.node(p.ID)
		if err != nil {
			return nil, err
		}
		s.Roots = append(s.Roots, n)
	}

	// Persons that only appear inside a loop have a parent and were never
	// reached from a root.
	if len(b.seen) < len(s.Persons) {
		for _, p := range persons {
			if !b.seen[p.ID] {
				return nil, &CycleError{PersonID: p.ID}
			}
		}
	}

	return s, nil
}

type builder struct {
	persons  map[int64]models.Person
	children map[int64][]int64
	// path holds the persons on the current descent.
	path map[int64]bool
	seen map[int64]bool
}

func (b *builder) node(id int64) (*Node, error) {
	if b.path[id] {
		return nil, &CycleError{PersonID: id}
	}
	b.path[id] = true
	b.seen[id] = true
	defer delete(b.path, id)

	p := b.persons[id]
	n := &Node{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName.String,
		BirthDate: p.BirthDate.String,
		DeathDate: p.DeathDate.String,
		Gender:    p.Gender.String,
		Biography: p.Biography.String,
		Children:  []*Node{},
	}

	for _, cid := range b.children[id] {
		c, err := b.node(cid)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}

	return n, nil
}
