// Package middlewarectx содержит HTTP middleware для авторизации запросов.
//
// AuthMiddleware проверяет наличие идентификационного токена в заголовке
// Authorization, резолвит по нему модератора и в случае успеха добавляет
// учётную запись в контекст для дальнейшего использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/campusboard/campus-news/internal/http/response"
	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// ModeratorKey — ключ учётной записи запрашивающего модератора в контексте.
const ModeratorKey Key = "moderator"

// Resolver описывает интерфейс резолва модератора по токену доступа.
type Resolver interface {
	ResolveByToken(ctx context.Context, accessToken string) (*models.Moderator, error)
}

// AuthMiddleware возвращает HTTP middleware, который проверяет идентификационный
// токен в заголовке Authorization.
//
// Если токен принадлежит действующему модератору, учётная запись добавляется
// в контекст запроса, иначе возвращается HTTP 401 Unauthorized.
func AuthMiddleware(resolver Resolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"
			authHeader := r.Header.Get("Authorization")

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			accessToken := strings.TrimPrefix(authHeader, "Bearer ")

			moderator, err := resolver.ResolveByToken(r.Context(), accessToken)
			if err != nil {
				log.Error("invalid access token", sl.Err(err))
				status, body := response.AppError(err)
				render.Status(r, status)
				render.JSON(w, r, body)
				return
			}
			ctx := context.WithValue(r.Context(), ModeratorKey, moderator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ModeratorFromContext возвращает модератора, добавленного AuthMiddleware.
func ModeratorFromContext(ctx context.Context) (*models.Moderator, bool) {
	m, ok := ctx.Value(ModeratorKey).(*models.Moderator)
	return m, ok && m != nil
}
