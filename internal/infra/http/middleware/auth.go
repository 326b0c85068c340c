package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/DinoRu/chapmoney/internal/domain"
)

// A emissão de tokens vive no serviço de autenticação; aqui só
// verificamos a assinatura HS256 e extraímos o ator (id + role).

type actorKeyType string

const actorKey actorKeyType = "actor"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate valida o Bearer token e injeta o domain.Actor no contexto.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				respondAuthError(w, http.StatusUnauthorized, "Credenciais ausentes")
				return
			}

			var c claims
			token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, domain.ErrUnauthorized
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				respondAuthError(w, http.StatusUnauthorized, "Token inválido ou expirado")
				return
			}

			userID, err := uuid.Parse(c.Subject)
			if err != nil {
				respondAuthError(w, http.StatusUnauthorized, "Token inválido ou expirado")
				return
			}

			actor := domain.Actor{ID: userID, Role: domain.Role(c.Role)}
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin pressupõe Authenticate antes dele na cadeia.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			respondAuthError(w, http.StatusUnauthorized, "Credenciais ausentes")
			return
		}
		if !actor.IsAdmin() {
			respondAuthError(w, http.StatusForbidden, "Acesso restrito a administradores")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// ContextWithActor existe para os testes de handler montarem o contexto
// sem passar pelo parse de JWT.
func ContextWithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func respondAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
