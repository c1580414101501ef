package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ============================================
   Locals Keys (middleware should set these)
   ============================================ */

const (
	LocUserID      = "user_id"      // string UUID
	LocSchoolID    = "school_id"    // string UUID (tenant aktif dari token)
	LocRolesGlobal = "roles_global" // []string
)

// GetSchoolIDFromToken mengambil tenant (school_id) dari locals yang
// di-hydrate middleware AuthJWT. Tenant TIDAK pernah diambil dari body.
func GetSchoolIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocSchoolID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "school_id tidak ditemukan di token")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "school_id tidak valid")
	}
	return id, nil
}

// EnsurePathSchoolMatch memastikan :school_id di path sama dengan tenant token.
func EnsurePathSchoolMatch(c *fiber.Ctx) (uuid.UUID, error) {
	tokenID, err := GetSchoolIDFromToken(c)
	if err != nil {
		return uuid.Nil, err
	}
	raw := strings.TrimSpace(c.Params("school_id"))
	if raw == "" {
		return tokenID, nil
	}
	pathID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "school_id path tidak valid")
	}
	if pathID != tokenID {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "school_id tidak sesuai dengan token")
	}
	return tokenID, nil
}

func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user_id tidak ditemukan di token")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user_id tidak valid")
	}
	return id, nil
}
