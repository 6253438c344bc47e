package backend

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/genesisgates/genesis/pkg/proto"
	ftree "github.com/genesisgates/genesis/pkg/tree"
	"github.com/matryer/is"
)

func TestAddPerson(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	tr := f.tree(t, ann, "tree", false)

	p, err := f.be.AddPerson(f.ctx, ann, tr.ID(), proto.PersonOptions{
		FirstName: " John ",
		LastName:  "Doe",
		Gender:    "Male",
		Biography: `<p onclick="x()">Hi <script>alert(1)</script><b>there</b></p>`,
	})
	is.NoErr(err)
	is.True(p.ID > 0)
	is.Equal(p.TreeID, tr.ID())
	is.Equal(p.FirstName, "John")
	is.Equal(p.LastName.String, "Doe")
	is.Equal(p.Gender.String, "male")
	is.True(!p.BirthDate.Valid)
	is.Equal(p.Biography.String, "<p>Hi <b>there</b></p>")

	_, err = f.be.AddPerson(f.ctx, ann, tr.ID(), proto.PersonOptions{LastName: "Doe"})
	is.True(errors.Is(err, proto.ErrEmptyName))
}

func TestPersonAccess(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	bob := f.login(t, "bob@example.com")
	cid := f.login(t, "cid@example.com")
	tr := f.tree(t, ann, "tree", false)
	is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), bob.Email(), true))
	is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), cid.Email(), false))

	p, err := f.be.AddPerson(f.ctx, bob, tr.ID(), proto.PersonOptions{FirstName: "John"})
	is.NoErr(err)

	_, err = f.be.AddPerson(f.ctx, cid, tr.ID(), proto.PersonOptions{FirstName: "Jane"})
	is.True(errors.Is(err, proto.ErrUnauthorized))

	ps, err := f.be.Persons(f.ctx, cid, tr.ID())
	is.NoErr(err)
	is.Equal(len(ps), 1)

	_, err = f.be.Persons(f.ctx, nil, tr.ID())
	is.True(errors.Is(err, proto.ErrUnauthorized))

	err = f.be.DeletePerson(f.ctx, cid, tr.ID(), p.ID)
	is.True(errors.Is(err, proto.ErrUnauthorized))
}

func TestUpdateDeletePerson(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	tr := f.tree(t, ann, "tree", false)
	other := f.tree(t, ann, "other", false)

	p, err := f.be.AddPerson(f.ctx, ann, tr.ID(), proto.PersonOptions{FirstName: "John", LastName: "Doe"})
	is.NoErr(err)

	p, err = f.be.UpdatePerson(f.ctx, ann, tr.ID(), p.ID, proto.PersonOptions{FirstName: "Johnny", BirthDate: "1900"})
	is.NoErr(err)
	is.Equal(p.FirstName, "Johnny")
	is.True(!p.LastName.Valid)
	is.Equal(p.BirthDate.String, "1900")

	_, err = f.be.UpdatePerson(f.ctx, ann, other.ID(), p.ID, proto.PersonOptions{FirstName: "X"})
	is.True(errors.Is(err, proto.ErrPersonNotFound))

	_, err = f.be.Person(f.ctx, ann, other.ID(), p.ID)
	is.True(errors.Is(err, proto.ErrPersonNotFound))

	is.NoErr(f.be.DeletePerson(f.ctx, ann, tr.ID(), p.ID))
	_, err = f.be.Person(f.ctx, ann, tr.ID(), p.ID)
	is.True(errors.Is(err, proto.ErrPersonNotFound))
}

func TestAddRelationship(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	tr := f.tree(t, ann, "tree", false)
	other := f.tree(t, ann, "other", false)

	john, err := f.be.AddPerson(f.ctx, ann, tr.ID(), proto.PersonOptions{FirstName: "John"})
	is.NoErr(err)
	kid, err := f.be.AddPerson(f.ctx, ann, tr.ID(), proto.PersonOptions{FirstName: "Kid"})
	is.NoErr(err)
	stranger, err := f.be.AddPerson(f.ctx, ann, other.ID(), proto.PersonOptions{FirstName: "Stranger"})
	is.NoErr(err)

	r, err := f.be.AddRelationship(f.ctx, ann, tr.ID(), john.ID, kid.ID, " Parent ")
	is.NoErr(err)
	is.True(r.ID > 0)
	is.Equal(r.RelationType, "parent")

	cases := []struct {
		name     string
		from, to int64
		relType  string
	}{
		{"self", john.ID, john.ID, "parent"},
		{"empty type", john.ID, kid.ID, " "},
		{"other tree", john.ID, stranger.ID, "parent"},
		{"unknown person", john.ID, 9999, "parent"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.be.AddRelationship(f.ctx, ann, tr.ID(), c.from, c.to, c.relType)
			if !errors.Is(err, proto.ErrInvalidRelationship) {
				t.Errorf("AddRelationship => %v, want %v", err, proto.ErrInvalidRelationship)
			}
		})
	}

	rs, err := f.be.Relationships(f.ctx, ann, tr.ID())
	is.NoErr(err)
	is.Equal(len(rs), 1)

	is.NoErr(f.be.DeleteRelationship(f.ctx, ann, tr.ID(), r.ID))
	rs, err = f.be.Relationships(f.ctx, ann, tr.ID())
	is.NoErr(err)
	is.Equal(len(rs), 0)
}

func TestTreeStructure(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	tr := f.tree(t, ann, "tree", true)

	add := func(first, last string) int64 {
		p, err := f.be.AddPerson(f.ctx, ann, tr.ID(), proto.PersonOptions{FirstName: first, LastName: last})
		is.NoErr(err)
		return p.ID
	}
	john := add("John", "Doe")
	jane := add("Jane", "Doe")
	kid := add("Kid", "Doe")
	_, err := f.be.AddRelationship(f.ctx, ann, tr.ID(), john, kid, "parent")
	is.NoErr(err)
	_, err = f.be.AddRelationship(f.ctx, ann, tr.ID(), jane, kid, "parent")
	is.NoErr(err)
	_, err = f.be.AddRelationship(f.ctx, ann, tr.ID(), john, jane, "spouse")
	is.NoErr(err)

	s, err := f.be.TreeStructure(f.ctx, nil, tr.ID())
	is.NoErr(err)
	is.Equal(len(s.Persons), 3)
	is.Equal(len(s.Relationships), 3)

	// roots follow last name then first name
	is.Equal(len(s.Roots), 2)
	is.Equal(s.Roots[0].ID, jane)
	is.Equal(s.Roots[1].ID, john)
	is.Equal(len(s.Roots[0].Children), 1)
	is.Equal(s.Roots[0].Children[0].ID, kid)
	is.Equal(s.Roots[1].Children[0].ID, kid)

	// close the loop
	_, err = f.be.AddRelationship(f.ctx, ann, tr.ID(), kid, john, "parent")
	is.NoErr(err)
	_, err = f.be.TreeStructure(f.ctx, ann, tr.ID())
	is.True(errors.Is(err, ftree.ErrCycle))
}

func TestExportGEDCOM(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	tr := f.tree(t, ann, "Doe family", false)

	john, err := f.be.AddPerson(f.ctx, ann, tr.ID(), proto.PersonOptions{FirstName: "John", LastName: "Doe", Gender: "male"})
	is.NoErr(err)
	kid, err := f.be.AddPerson(f.ctx, ann, tr.ID(), proto.PersonOptions{FirstName: "Kid"})
	is.NoErr(err)
	_, err = f.be.AddRelationship(f.ctx, ann, tr.ID(), john.ID, kid.ID, "parent")
	is.NoErr(err)

	var buf bytes.Buffer
	is.NoErr(f.be.ExportGEDCOM(f.ctx, ann, tr.ID(), &buf))
	out := buf.String()
	is.True(strings.HasPrefix(out, "0 HEAD\n"))
	is.True(strings.Contains(out, "1 NOTE Doe family\n"))
	is.True(strings.Contains(out, "1 NAME John /Doe/\n"))
	is.True(strings.Contains(out, "1 HUSB @I"))
	is.True(strings.HasSuffix(out, "0 TRLR\n"))

	err = f.be.ExportGEDCOM(f.ctx, nil, tr.ID(), &buf)
	is.True(errors.Is(err, proto.ErrUnauthorized))
}
