package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutorhub/internal/models"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
	"github.com/noah-isme/tutorhub/pkg/response"
)

// Self allows a student or teacher to reach routes whose :id is their own
// profile. SelfStudent and SelfTeacher narrow that to one role.
const (
	Self        = "SELF"
	SelfStudent = "SELF:student"
	SelfTeacher = "SELF:teacher"
)

// RBAC enforces role-based access control for routes.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowSelf := false
	selfRoles := make(map[models.Role]struct{})
	allowedRoles := make(map[models.Role]struct{})
	for _, a := range allowed {
		switch {
		case a == Self:
			allowSelf = true
		case strings.HasPrefix(a, Self+":"):
			selfRoles[models.Role(strings.TrimPrefix(a, Self+":"))] = struct{}{}
		default:
			allowedRoles[models.Role(a)] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		if _, ok := allowedRoles[claims.Role]; ok {
			c.Next()
			return
		}

		_, selfRole := selfRoles[claims.Role]
		if (allowSelf || selfRole) && claims.ProfileID > 0 {
			if targetID := c.Param("id"); targetID != "" && targetID == strconv.FormatInt(claims.ProfileID, 10) {
				c.Next()
				return
			}
		}

		response.Abort(c, appErrors.ErrForbidden)
	}
}

// RequireRoles is a helper that accepts a list of roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return RBAC(allowed...)
}
