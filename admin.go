package sigsite

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.page(c, "Admin", ""), false))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

// handleAdminLogin only counts failed attempts against the limiter.
func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Allow(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		a.loginLimiter.Refund(ip)
		if err := setAdminSession(c); err != nil {
			return err
		}
		a.logger.Info().Str("ip", ip).Msg("admin login")
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.logger.Warn().Str("ip", ip).Msg("admin login failed")
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(a.page(c, "Admin", ""), true))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminRefresh(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if a.fetcher == nil {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=No+dataset+source+configured.")
	}
	if !a.StartRefresh() {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=A+refresh+is+already+running.")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=Refresh+started.")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	info, err := a.Store.DatasetInfo()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(a.page(c, "Admin", ""), viewDataset(info), a.RefreshStatus(), msg))
}
