package backend

import (
	"errors"
	"testing"

	"github.com/genesisgates/genesis/pkg/access"
	"github.com/genesisgates/genesis/pkg/proto"
	"github.com/matryer/is"
)

func TestAccessLevelForUser(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	writer := f.login(t, "writer@example.com")
	reader := f.login(t, "reader@example.com")
	stranger := f.login(t, "stranger@example.com")

	private := f.tree(t, ann, "private", false)
	public := f.tree(t, ann, "public", true)
	for _, tr := range []proto.Tree{private, public} {
		is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), writer.Email(), true))
		is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), reader.Email(), false))
	}

	cases := []struct {
		name string
		user proto.User
		tree proto.Tree
		want access.AccessLevel
	}{
		{"owner", ann, private, access.OwnerAccess},
		{"writer", writer, private, access.ReadWriteAccess},
		{"reader", reader, private, access.ReadOnlyAccess},
		{"stranger", stranger, private, access.NoAccess},
		{"anonymous", nil, private, access.NoAccess},
		{"owner public", ann, public, access.OwnerAccess},
		{"writer public", writer, public, access.ReadWriteAccess},
		{"reader public", reader, public, access.ReadOnlyAccess},
		{"stranger public", stranger, public, access.ReadOnlyAccess},
		{"anonymous public", nil, public, access.ReadOnlyAccess},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := f.be.AccessLevelForUser(f.ctx, c.tree, c.user)
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("AccessLevelForUser => %v, want %v", got, c.want)
			}

			view, _ := f.be.CanView(f.ctx, c.user, c.tree)
			edit, _ := f.be.CanEdit(f.ctx, c.user, c.tree)
			if view != c.want.CanView() || edit != c.want.CanEdit() {
				t.Errorf("CanView, CanEdit => %v, %v, want %v, %v", view, edit, c.want.CanView(), c.want.CanEdit())
			}
		})
	}
}

func TestIsEditor(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	bob := f.login(t, "bob@example.com")
	tr := f.tree(t, ann, "tree", false)

	canEdit, isEditor, err := f.be.IsEditor(f.ctx, bob, tr)
	is.NoErr(err)
	is.True(!canEdit)
	is.True(!isEditor)

	is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), bob.Email(), false))
	canEdit, isEditor, err = f.be.IsEditor(f.ctx, bob, tr)
	is.NoErr(err)
	is.True(!canEdit)
	is.True(isEditor)

	// adding again replaces the grant
	is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), "BOB@example.com", true))
	canEdit, isEditor, err = f.be.IsEditor(f.ctx, bob, tr)
	is.NoErr(err)
	is.True(canEdit)
	is.True(isEditor)

	is.True(f.be.IsOwner(ann, tr))
	is.True(!f.be.IsOwner(bob, tr))
	is.True(!f.be.IsOwner(nil, tr))
}

func TestEditors(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	ann := f.login(t, "ann@example.com")
	bob := f.login(t, "bob@example.com")
	cid := f.login(t, "cid@example.com")
	tr := f.tree(t, ann, "tree", false)

	is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), bob.Email(), true))
	is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), "nobody@example.com", true))
	is.NoErr(f.be.AddEditor(f.ctx, ann, tr.ID(), ann.Email(), false))

	editors, err := f.be.Editors(f.ctx, ann, tr.ID())
	is.NoErr(err)
	is.Equal(editors, []proto.Editor{{UserID: bob.ID(), Email: bob.Email(), CanEdit: true}})

	// editors cannot manage editors
	err = f.be.AddEditor(f.ctx, bob, tr.ID(), cid.Email(), true)
	is.True(errors.Is(err, proto.ErrUnauthorized))
	_, err = f.be.Editors(f.ctx, bob, tr.ID())
	is.True(errors.Is(err, proto.ErrUnauthorized))
	err = f.be.RemoveEditor(f.ctx, bob, tr.ID(), bob.ID())
	is.True(errors.Is(err, proto.ErrUnauthorized))

	is.NoErr(f.be.RemoveEditor(f.ctx, ann, tr.ID(), bob.ID()))
	is.NoErr(f.be.RemoveEditor(f.ctx, ann, tr.ID(), cid.ID()))

	editors, err = f.be.Editors(f.ctx, ann, tr.ID())
	is.NoErr(err)
	is.Equal(len(editors), 0)

	err = f.be.AddEditor(f.ctx, ann, tr.ID(), "bad", true)
	is.True(errors.Is(err, proto.ErrInvalidEmail))
}
