package web

import (
	"net/http"

	"github.com/genesisgates/genesis/pkg/backend"
	"github.com/genesisgates/genesis/pkg/proto"
)

func getPersons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	id, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}

	ps, err := be.Persons(ctx, proto.UserFromContext(ctx), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	out := make([]personResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, newPersonResponse(p))
	}
	renderJSON(w, http.StatusOK, out)
}

func getPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	treeID, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}
	personID, err := idVar(r, "person")
	if err != nil {
		renderError(w, r, err)
		return
	}

	p, err := be.Person(ctx, proto.UserFromContext(ctx), treeID, personID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newPersonResponse(p))
}

func postPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	id, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req proto.PersonOptions
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	p, err := be.AddPerson(ctx, proto.UserFromContext(ctx), id, req)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, newPersonResponse(p))
}

func putPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	treeID, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}
	personID, err := idVar(r, "person")
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req proto.PersonOptions
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	p, err := be.UpdatePerson(ctx, proto.UserFromContext(ctx), treeID, personID, req)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newPersonResponse(p))
}

func deletePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	treeID, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}
	personID, err := idVar(r, "person")
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := be.DeletePerson(ctx, proto.UserFromContext(ctx), treeID, personID); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func getRelationships(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	id, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}

	rs, err := be.Relationships(ctx, proto.UserFromContext(ctx), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	out := make([]relationshipResponse, 0, len(rs))
	for _, rel := range rs {
		out = append(out, newRelationshipResponse(rel))
	}
	renderJSON(w, http.StatusOK, out)
}

type relationshipRequest struct {
	PersonID        int64  `json:"person_id"`
	RelatedPersonID int64  `json:"related_person_id"`
	RelationType    string `json:"relation_type"`
}

func postRelationship(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	id, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req relationshipRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	rel, err := be.AddRelationship(ctx, proto.UserFromContext(ctx), id, req.PersonID, req.RelatedPersonID, req.RelationType)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, newRelationshipResponse(rel))
}

func deleteRelationship(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	treeID, err := idVar(r, "tree")
	if err != nil {
		renderError(w, r, err)
		return
	}
	relID, err := idVar(r, "relationship")
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := be.DeleteRelationship(ctx, proto.UserFromContext(ctx), treeID, relID); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
