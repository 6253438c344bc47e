package access

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
)

func TestParseAccessLevel(t *testing.T) {
	cases := []struct {
		in  string
		out AccessLevel
	}{
		{"", -1},
		{"foo", -1},
		{"admin-access", -1},
		{OwnerAccess.String(), OwnerAccess},
		{ReadOnlyAccess.String(), ReadOnlyAccess},
		{ReadWriteAccess.String(), ReadWriteAccess},
		{NoAccess.String(), NoAccess},
	}

	for _, c := range cases {
		out := ParseAccessLevel(c.in)
		if out != c.out {
			t.Errorf("ParseAccessLevel(%q) => %d, want %d", c.in, out, c.out)
		}
	}
}

func TestResolve(t *testing.T) {
	viewer := &Grant{CanEdit: false}
	editor := &Grant{CanEdit: true}
	cases := []struct {
		name   string
		owner  bool
		public bool
		grant  *Grant
		want   AccessLevel
	}{
		{"owner of private tree", true, false, nil, OwnerAccess},
		{"owner with stray grant", true, false, viewer, OwnerAccess},
		{"editor", false, false, editor, ReadWriteAccess},
		{"editor on public tree", false, true, editor, ReadWriteAccess},
		{"read-only editor", false, false, viewer, ReadOnlyAccess},
		{"stranger on public tree", false, true, nil, ReadOnlyAccess},
		{"stranger on private tree", false, false, nil, NoAccess},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Resolve(c.owner, c.public, c.grant); got != c.want {
				t.Errorf("Resolve(%t, %t, %v) => %s, want %s", c.owner, c.public, c.grant, got, c.want)
			}
		})
	}
}

func TestResolveImplications(t *testing.T) {
	is := is.New(t)
	for _, owner := range []bool{true, false} {
		for _, public := range []bool{true, false} {
			for _, grant := range []*Grant{nil, {CanEdit: false}, {CanEdit: true}} {
				l := Resolve(owner, public, grant)
				if l.CanEdit() {
					is.True(l.CanView()) // edit implies view
				}
				if owner {
					is.True(l.CanEdit()) // owner implies edit
				}
				if !owner && grant == nil {
					is.Equal(l.CanView(), public) // strangers see public trees only
				}
			}
		}
	}
}

func TestAccessLevelText(t *testing.T) {
	is := is.New(t)
	b, err := json.Marshal(struct {
		Level AccessLevel `json:"level"`
	}{ReadWriteAccess})
	is.NoErr(err)
	is.Equal(string(b), `{"level":"read-write"}`)

	var l AccessLevel
	is.NoErr(l.UnmarshalText([]byte("owner")))
	is.Equal(l, OwnerAccess)
	is.Equal(l.UnmarshalText([]byte("root")), ErrInvalidAccessLevel)
}
