package web

import (
	"net/http"

	"github.com/genesisgates/genesis/pkg/backend"
	"github.com/genesisgates/genesis/pkg/proto"
)

func getEditors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	id, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}

	editors, err := be.Editors(ctx, proto.UserFromContext(ctx), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, editors)
}

type editorRequest struct {
	Email   string `json:"email"`
	CanEdit bool   `json:"can_edit"`
}

// postEditor answers 204 whether or not the email belongs to a member.
func postEditor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	id, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req editorRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	if err := be.AddEditor(ctx, proto.UserFromContext(ctx), id, req.Email, req.CanEdit); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func deleteEditor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	treeID, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}
	userID, err := idVar(r, "user")
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := be.RemoveEditor(ctx, proto.UserFromContext(ctx), treeID, userID); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
