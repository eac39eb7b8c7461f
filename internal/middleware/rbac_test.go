package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func adminUsersApp(role interface{}) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != nil {
			c.Locals("user_id", uint(1))
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Get("/admin/users", RequireRole(RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleGuardsAdminGroup(t *testing.T) {
	cases := []struct {
		name   string
		role   interface{}
		status int
	}{
		{name: "admin from token", role: "admin", status: fiber.StatusOK},
		{name: "admin stored uppercase", role: "ADMIN", status: fiber.StatusOK},
		{name: "teacher", role: RoleTeacher, status: fiber.StatusForbidden},
		{name: "no identity", role: nil, status: fiber.StatusForbidden},
		{name: "unexpected type", role: 42, status: fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := adminUsersApp(tc.role).Test(httptest.NewRequest(http.MethodGet, "/admin/users", nil), -1)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireRoleAcceptsAnyListedRole(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_role", " Teacher ")
		return c.Next()
	})
	app.Get("/classes", RequireRole(RoleTeacher, RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/classes", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
