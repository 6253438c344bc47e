package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/genesisgates/genesis/pkg/backend"
	"github.com/genesisgates/genesis/pkg/config"
	"github.com/genesisgates/genesis/pkg/proto"
	"github.com/genesisgates/genesis/pkg/token"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// SessionCookie holds the signed session token of a member.
	SessionCookie = "session"
	// PendingCookie holds the signed email a login code was sent to.
	PendingCookie = "pending"
)

var tokenFailuresCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "genesis",
	Subsystem: "http",
	Name:      "token_failures_total",
	Help:      "The total number of session and bearer tokens that did not verify",
}, []string{"kind"})

// AuthController registers the login routes.
func AuthController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/auth/login", postLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/verify", postVerify).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", postLogout).Methods(http.MethodPost)
}

// authenticate finds the member making the request. A bearer token takes
// precedence over the session cookie. It returns a nil user and nil error
// for anonymous requests.
func authenticate(r *http.Request) (proto.User, error) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	codec := token.FromContext(ctx)
	be := backend.FromContext(ctx)

	var (
		id int64
		ok bool
	)
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return nil, proto.ErrInvalidToken
		}

		id, ok = codec.VerifyJWT(strings.TrimSpace(parts[1]))
		if !ok {
			tokenFailuresCounter.WithLabelValues("bearer").Inc()
			return nil, proto.ErrInvalidToken
		}
	} else if c, err := r.Cookie(SessionCookie); err == nil {
		id, ok = codec.Verify(c.Value)
		if !ok {
			tokenFailuresCounter.WithLabelValues("session").Inc()
			return nil, proto.ErrInvalidToken
		}
	} else {
		logger.Debug("no credentials")
		return nil, nil
	}

	user, err := be.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, proto.ErrUserNotFound) {
			return nil, proto.ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}

// withUser stores the authenticated member in the request context.
// Invalid credentials count as no identity: the session cookie is cleared
// and the request goes on anonymously. Only store failures are fatal.
func withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticate(r)
		switch {
		case errors.Is(err, proto.ErrInvalidToken):
			log.FromContext(r.Context()).Debug("ignoring invalid credentials")
			if _, cerr := r.Cookie(SessionCookie); cerr == nil {
				clearCookie(w, r, SessionCookie)
			}
			user = nil
		case err != nil:
			renderError(w, r, err)
			return
		}

		ctx := proto.WithUserContext(r.Context(), user)
		if user != nil {
			ctx = log.WithContext(ctx, log.FromContext(ctx).With("user", user.ID()))
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser rejects anonymous requests.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if proto.UserFromContext(r.Context()) == nil {
			renderError(w, r, proto.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	Email string `json:"email"`
}

func postLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := config.FromContext(ctx)
	be := backend.FromContext(ctx)
	codec := token.FromContext(ctx)

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	email, err := backend.NormalizeEmail(req.Email)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := be.StartLogin(ctx, email); err != nil {
		renderError(w, r, err)
		return
	}

	setCookie(w, r, PendingCookie, codec.SignValue(email), cfg.Auth.PendingTTL)
	renderJSON(w, http.StatusAccepted, map[string]string{"email": email})
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type verifyResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func postVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := config.FromContext(ctx)
	be := backend.FromContext(ctx)
	codec := token.FromContext(ctx)

	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	email := req.Email
	if email == "" {
		if c, err := r.Cookie(PendingCookie); err == nil {
			email, _ = codec.VerifyValue(c.Value)
		}
	}
	if email == "" {
		renderError(w, r, proto.ErrInvalidCode)
		return
	}

	user, err := be.VerifyLogin(ctx, email, req.Code)
	if err != nil {
		renderError(w, r, err)
		return
	}

	bearer, err := codec.IssueJWT(user.ID(), cfg.Auth.BearerTTL)
	if err != nil {
		renderError(w, r, err)
		return
	}

	clearCookie(w, r, PendingCookie)
	setCookie(w, r, SessionCookie, codec.Issue(user.ID(), cfg.Auth.SessionTTL), cfg.Auth.SessionTTL)
	renderJSON(w, http.StatusOK, verifyResponse{
		User:  newUserResponse(user, cfg),
		Token: bearer,
	})
}

func postLogout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, r, SessionCookie)
	clearCookie(w, r, PendingCookie)
	w.WriteHeader(http.StatusNoContent)
}

func setCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	cfg := config.FromContext(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cfg.HTTP.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	cfg := config.FromContext(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.HTTP.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
