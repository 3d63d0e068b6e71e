package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/careops-au/ndis-ops-api/internal/middleware"
	"github.com/careops-au/ndis-ops-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// staffIDForCaller returns the staff record linked to the caller. Support
// workers act on their own offers and shifts; coordinators and admins pass an
// explicit staff ID instead.
func staffIDForCaller(c *gin.Context) string {
	claims := claimsFromContext(c)
	if claims == nil {
		return ""
	}
	if claims.Role == models.RoleSupportWorker {
		return claims.StaffID
	}
	return ""
}
