package backend

import (
	"errors"
	"testing"

	"github.com/genesisgates/genesis/pkg/access"
	"github.com/genesisgates/genesis/pkg/proto"
	"github.com/matryer/is"
)

func TestCreateTree(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")

	tr, err := f.be.CreateTree(f.ctx, ann, "  Doe family ", proto.TreeOptions{Description: "ours"})
	is.NoErr(err)
	is.Equal(tr.Name(), "Doe family")
	is.Equal(tr.Description(), "ours")
	is.Equal(tr.OwnerID(), ann.ID())
	is.True(!tr.IsPublic())

	_, err = f.be.CreateTree(f.ctx, ann, " ", proto.TreeOptions{})
	is.True(errors.Is(err, proto.ErrEmptyName))

	_, err = f.be.CreateTree(f.ctx, nil, "anon", proto.TreeOptions{})
	is.True(errors.Is(err, proto.ErrUnauthorized))
}

func TestCreateTreeLimit(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")

	for i := 0; i < f.be.cfg.Plans.FreeTreeLimit; i++ {
		f.tree(t, ann, "tree", false)
	}

	_, err := f.be.CreateTree(f.ctx, ann, "one too many", proto.TreeOptions{})
	is.True(errors.Is(err, proto.ErrTreeLimit))
	is.True(proto.IsValidation(err))

	premium, err := f.be.SetUserPlan(f.ctx, ann, "premium")
	is.NoErr(err)
	_, err = f.be.CreateTree(f.ctx, premium, "premium tree", proto.TreeOptions{})
	is.NoErr(err)

	trees, err := f.be.UserTrees(f.ctx, premium)
	is.NoErr(err)
	is.Equal(len(trees), f.be.cfg.Plans.FreeTreeLimit+1)
}

func TestCreateTreeUnlimited(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	f.be.cfg.Plans.FreeTreeLimit = 0
	ann := f.login(t, "ann@example.com")

	for i := 0; i < 5; i++ {
		f.tree(t, ann, "tree", false)
	}

	n, err := f.be.UserTrees(f.ctx, ann)
	is.NoErr(err)
	is.Equal(len(n), 5)
}

func TestTreeNotFound(t *testing.T) {
	is := is.New(t)
	f := setup(t)

	_, err := f.be.Tree(f.ctx, 42)
	is.True(errors.Is(err, proto.ErrTreeNotFound))
}

func TestTreeForUser(t *testing.T) {
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	bob := f.login(t, "bob@example.com")

	private := f.tree(t, ann, "private", false)
	public := f.tree(t, ann, "public", true)

	cases := []struct {
		name  string
		user  proto.User
		tree  proto.Tree
		level access.AccessLevel
		err   error
	}{
		{"owner private", ann, private, access.OwnerAccess, nil},
		{"stranger private", bob, private, access.NoAccess, proto.ErrUnauthorized},
		{"anonymous private", nil, private, access.NoAccess, proto.ErrUnauthorized},
		{"stranger public", bob, public, access.ReadOnlyAccess, nil},
		{"anonymous public", nil, public, access.ReadOnlyAccess, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, level, err := f.be.TreeForUser(f.ctx, c.user, c.tree.ID())
			if !errors.Is(err, c.err) {
				t.Errorf("TreeForUser err => %v, want %v", err, c.err)
			}
			if level != c.level {
				t.Errorf("TreeForUser level => %v, want %v", level, c.level)
			}
		})
	}
}

func TestTreeListings(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	bob := f.login(t, "bob@example.com")

	mine := f.tree(t, ann, "mine", false)
	f.tree(t, ann, "open", true)
	_, err := f.be.AddPerson(f.ctx, ann, mine.ID(), proto.PersonOptions{FirstName: "John"})
	is.NoErr(err)
	is.NoErr(f.be.AddEditor(f.ctx, ann, mine.ID(), bob.Email(), false))

	owned, err := f.be.UserTrees(f.ctx, ann)
	is.NoErr(err)
	is.Equal(len(owned), 2)
	for _, s := range owned {
		if s.Tree.ID() == mine.ID() {
			is.Equal(s.PersonCount, int64(1))
		}
	}

	shared, err := f.be.SharedTrees(f.ctx, bob)
	is.NoErr(err)
	is.Equal(len(shared), 1)
	is.Equal(shared[0].Tree.ID(), mine.ID())

	public, err := f.be.PublicTrees(f.ctx)
	is.NoErr(err)
	is.Equal(len(public), 1)
	is.Equal(public[0].Tree.Name(), "open")
}

func TestUpdateTree(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	bob := f.login(t, "bob@example.com")
	cid := f.login(t, "cid@example.com")
	tr := f.tree(t, ann, "old", false)

	// warm the cache
	_, err := f.be.Tree(f.ctx, tr.ID())
	is.NoErr(err)

	is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), bob.Email(), true))
	is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), cid.Email(), false))

	updated, err := f.be.UpdateTree(f.ctx, bob, tr.ID(), "new", "desc")
	is.NoErr(err)
	is.Equal(updated.Name(), "new")

	got, err := f.be.Tree(f.ctx, tr.ID())
	is.NoErr(err)
	is.Equal(got.Name(), "new")
	is.Equal(got.Description(), "desc")

	_, err = f.be.UpdateTree(f.ctx, cid, tr.ID(), "nope", "")
	is.True(errors.Is(err, proto.ErrUnauthorized))

	_, err = f.be.UpdateTree(f.ctx, ann, tr.ID(), "", "")
	is.True(errors.Is(err, proto.ErrEmptyName))
}

func TestSetTreePublic(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	bob := f.login(t, "bob@example.com")
	tr := f.tree(t, ann, "tree", false)
	is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), bob.Email(), true))

	_, err := f.be.SetTreePublic(f.ctx, bob, tr.ID(), true)
	is.True(errors.Is(err, proto.ErrUnauthorized))

	got, err := f.be.SetTreePublic(f.ctx, ann, tr.ID(), true)
	is.NoErr(err)
	is.True(got.IsPublic())

	ok, err := f.be.CanView(f.ctx, nil, got)
	is.NoErr(err)
	is.True(ok)
}

func TestDeleteTree(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	bob := f.login(t, "bob@example.com")
	tr := f.tree(t, ann, "tree", false)
	is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), bob.Email(), true))
	p, err := f.be.AddPerson(f.ctx, ann, tr.ID(), proto.PersonOptions{FirstName: "John"})
	is.NoErr(err)
	c, err := f.be.AddPerson(f.ctx, ann, tr.ID(), proto.PersonOptions{FirstName: "Ann"})
	is.NoErr(err)
	_, err = f.be.AddRelationship(f.ctx, ann, tr.ID(), p.ID, c.ID, "parent")
	is.NoErr(err)

	err = f.be.DeleteTree(f.ctx, bob, tr.ID())
	is.True(errors.Is(err, proto.ErrUnauthorized))

	is.NoErr(f.be.DeleteTree(f.ctx, ann, tr.ID()))

	_, err = f.be.Tree(f.ctx, tr.ID())
	is.True(errors.Is(err, proto.ErrTreeNotFound))

	shared, err := f.be.SharedTrees(f.ctx, bob)
	is.NoErr(err)
	is.Equal(len(shared), 0)

	var count int
	is.NoErr(f.be.db.GetContext(f.ctx, &count, "SELECT COUNT(*) FROM persons"))
	is.Equal(count, 0)
	is.NoErr(f.be.db.GetContext(f.ctx, &count, "SELECT COUNT(*) FROM relationships"))
	is.Equal(count, 0)
}
