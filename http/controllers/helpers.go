package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"acl-admin-backend/models"
	"acl-admin-backend/providers/flash"
)

func userID(user *models.User) uint {
	if user == nil {
		return 0
	}
	return user.ID
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

// formIDs collects the positive integer values posted under any of keys,
// from url encoded and multipart bodies alike.
func formIDs(c *fiber.Ctx, keys ...string) []uint {
	var ids []uint
	seen := make(map[uint]bool)
	in := flash.FormInput(c)
	for _, key := range keys {
		for _, raw := range in[key] {
			n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
			if err != nil || n == 0 || seen[uint(n)] {
				continue
			}
			seen[uint(n)] = true
			ids = append(ids, uint(n))
		}
	}
	return ids
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func withDefault(messages []string, fallback string) []string {
	if len(messages) == 0 {
		return []string{fallback}
	}
	return messages
}
