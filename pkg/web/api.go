package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/genesisgates/genesis/pkg/backend"
	"github.com/genesisgates/genesis/pkg/config"
	"github.com/genesisgates/genesis/pkg/proto"
	"github.com/gorilla/mux"
)

// APIController registers the JSON API routes.
func APIController(_ context.Context, r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(withUser)

	api.HandleFunc("/public/trees", getPublicTrees).Methods(http.MethodGet)

	me := api.PathPrefix("/me").Subrouter()
	me.Use(requireUser)
	me.HandleFunc("", getMe).Methods(http.MethodGet)
	me.HandleFunc("/plan", putPlan).Methods(http.MethodPut)

	// Tree routes accept anonymous callers for public trees. The backend
	// checks access on every call.
	trees := api.PathPrefix("/trees").Subrouter()
	trees.Handle("", requireUser(http.HandlerFunc(getTrees))).Methods(http.MethodGet)
	trees.Handle("", requireUser(http.HandlerFunc(postTree))).Methods(http.MethodPost)

	tree := trees.PathPrefix("/{tree:[0-9]+}").Subrouter()
	tree.HandleFunc("", getTree).Methods(http.MethodGet)
	tree.HandleFunc("", patchTree).Methods(http.MethodPatch)
	tree.HandleFunc("", deleteTree).Methods(http.MethodDelete)
	tree.HandleFunc("/public", putTreePublic).Methods(http.MethodPut)
	tree.HandleFunc("/structure", getStructure).Methods(http.MethodGet)
	tree.HandleFunc("/gedcom", getGEDCOM).Methods(http.MethodGet)

	tree.HandleFunc("/persons", getPersons).Methods(http.MethodGet)
	tree.HandleFunc("/persons", postPerson).Methods(http.MethodPost)
	tree.HandleFunc("/persons/{person:[0-9]+}", getPerson).Methods(http.MethodGet)
	tree.HandleFunc("/persons/{person:[0-9]+}", putPerson).Methods(http.MethodPut)
	tree.HandleFunc("/persons/{person:[0-9]+}", deletePerson).Methods(http.MethodDelete)

	tree.HandleFunc("/relationships", getRelationships).Methods(http.MethodGet)
	tree.HandleFunc("/relationships", postRelationship).Methods(http.MethodPost)
	tree.HandleFunc("/relationships/{relationship:[0-9]+}", deleteRelationship).Methods(http.MethodDelete)

	tree.HandleFunc("/editors", getEditors).Methods(http.MethodGet)
	tree.HandleFunc("/editors", postEditor).Methods(http.MethodPost)
	tree.HandleFunc("/editors/{user:[0-9]+}", deleteEditor).Methods(http.MethodDelete)
}

// idVar returns a numeric route variable. Routes only match digits, so
// parsing can only fail on overflow.
func idVar(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrBadRequest, name)
	}
	return id, nil
}

func getMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := config.FromContext(ctx)
	renderJSON(w, http.StatusOK, newUserResponse(proto.UserFromContext(ctx), cfg))
}

type planRequest struct {
	Plan string `json:"plan"`
}

func putPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := config.FromContext(ctx)
	be := backend.FromContext(ctx)

	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	user, err := be.SetUserPlan(ctx, proto.UserFromContext(ctx), req.Plan)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newUserResponse(user, cfg))
}

type treesResponse struct {
	Owned  []treeResponse `json:"owned"`
	Shared []treeResponse `json:"shared"`
}

func getTrees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)
	user := proto.UserFromContext(ctx)

	owned, err := be.UserTrees(ctx, user)
	if err != nil {
		renderError(w, r, err)
		return
	}

	shared, err := be.SharedTrees(ctx, user)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, treesResponse{
		Owned:  newSummaryResponses(owned),
		Shared: newSummaryResponses(shared),
	})
}

func getPublicTrees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	trees, err := be.PublicTrees(ctx)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newSummaryResponses(trees))
}

type treeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

func postTree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	var req treeRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	t, err := be.CreateTree(ctx, proto.UserFromContext(ctx), req.Name, proto.TreeOptions{
		Description: req.Description,
		Public:      req.Public,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, newTreeResponse(t))
}

func getTree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	id, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}

	t, level, err := be.TreeForUser(ctx, proto.UserFromContext(ctx), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	resp := newTreeResponse(t)
	resp.Access = &level
	renderJSON(w, http.StatusOK, resp)
}

func patchTree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	id, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req treeRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	t, err := be.UpdateTree(ctx, proto.UserFromContext(ctx), id, req.Name, req.Description)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newTreeResponse(t))
}

func deleteTree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	id, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := be.DeleteTree(ctx, proto.UserFromContext(ctx), id); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type publicRequest struct {
	Public bool `json:"public"`
}

func putTreePublic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	id, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req publicRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	t, err := be.SetTreePublic(ctx, proto.UserFromContext(ctx), id, req.Public)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newTreeResponse(t))
}

func getStructure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	id, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}

	s, err := be.TreeStructure(ctx, proto.UserFromContext(ctx), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, s)
}

func getGEDCOM(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)
	user := proto.UserFromContext(ctx)

	id, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}

	// Check access before the first byte so errors still render as JSON.
	if _, _, err := be.TreeForUser(ctx, user, id); err != nil {
		renderError(w, r, err)
		return
	}

	streamAttachment(w, r, "text/x-gedcom; charset=utf-8", fmt.Sprintf("tree-%d.ged", id), func(out io.Writer) error {
		return be.ExportGEDCOM(ctx, user, id, out)
	})
}

// countingWriter records how many bytes reached the client.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// streamAttachment writes the output of fn as a file download. An error
// before the first byte is rendered as JSON. Once the body has started the
// status line is gone, so the error is only logged.
func streamAttachment(w http.ResponseWriter, r *http.Request, contentType, filename string, fn func(io.Writer) error) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := &countingWriter{w: w}
	err := fn(cw)
	switch {
	case err == nil:
	case cw.n == 0:
		w.Header().Del("Content-Disposition")
		renderError(w, r, err)
	default:
		log.FromContext(r.Context()).Error("download interrupted", "file", filename, "written", cw.n, "err", err)
	}
}
