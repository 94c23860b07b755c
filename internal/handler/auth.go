package handler

import (
	"context" // context with cancellation for DB calls
	"database/sql"
	"errors"
	"fmt"
	"net/http" // HTTP status codes and primitives
	"strconv"
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/coolie-booking/internal/config"     // app configuration
	"github.com/iliyamo/coolie-booking/internal/model"      // role constants
	"github.com/iliyamo/coolie-booking/internal/pnr"        // PNR lookup source
	"github.com/iliyamo/coolie-booking/internal/repository" // DB repositories
	"github.com/iliyamo/coolie-booking/internal/utils"      // hashing, token issuing
)

// AuthHandler bundles dependencies for auth endpoints: classic
// email/password accounts plus the PNR demo login for passengers.
type AuthHandler struct {
	Cfg        config.Config
	Users      *repository.UserRepo
	Tokens     *repository.TokenRepo
	Passengers *repository.PassengerRepo
	Coolies    *repository.CoolieRepo
	PNRSource  pnr.Source
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo,
	p *repository.PassengerRepo, co *repository.CoolieRepo, src pnr.Source) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Passengers: p, Coolies: co, PNRSource: src}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // PASSENGER | COOLIE
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type pnrReq struct {
	PNR string `json:"pnr"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register creates an account plus its role profile (passenger or
// coolie row) and returns a token pair immediately. Coolies start
// unverified; an admin must clear their KYC before they can be
// assigned work.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleCoolie && role != model.RolePassenger {
		role = model.RolePassenger
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	// Role profile row alongside the account, as the original client
	// did on signup.
	switch role {
	case model.RoleCoolie:
		if _, err := h.Coolies.Create(ctx, uid, req.Name, req.Phone); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create coolie profile failed"})
		}
	case model.RolePassenger:
		if _, err := h.Passengers.Create(ctx, &uid, req.Name, req.Phone, nil); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create passenger profile failed"})
		}
	}

	resp, err := h.issueTokens(ctx, uid, req.Email, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
	}

	resp, err := h.issueTokens(ctx, u.ID, u.Email, u.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// PNRLogin implements the passenger demo login: a 10-digit PNR is
// resolved to synthetic passenger details, the passenger row is
// upserted by PNR and bound to a deterministic demo account
// (passenger_<pnr>@demo.com), and a token pair is issued. The lookup
// source is injectable, so a real reservation API can replace the
// synthetic stub.
func (h *AuthHandler) PNRLogin(c echo.Context) error {
	var req pnrReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PNR = strings.TrimSpace(req.PNR)
	if err := pnr.Validate(req.PNR); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid PNR. Must be 10 digits."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, err := h.PNRSource.Lookup(ctx, req.PNR)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid PNR. Must be 10 digits."})
	}

	passengerID, err := h.Passengers.UpsertByPNR(ctx, rec.PNR, rec.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store passenger failed"})
	}

	// Find or create the demo account backing this PNR.
	email := fmt.Sprintf("passenger_%s@demo.com", rec.PNR)
	u, err := h.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		// existing demo account
	case err == sql.ErrNoRows:
		uid, createErr := h.Users.Create(ctx, email, h.Cfg.PNRDemoPass, model.RolePassenger, h.Cfg.BcryptCost)
		if createErr != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create demo account failed"})
		}
		if bindErr := h.Passengers.BindUser(ctx, passengerID, uid); bindErr != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bind passenger failed"})
		}
		u = model.User{ID: uid, Email: email, Role: model.RolePassenger}
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	resp, err := h.issueTokens(ctx, u.ID, u.Email, model.RolePassenger)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"passenger": rec,
		"user":      resp.User,
		"access":    resp.Access,
		"refresh":   resp.Refresh,
	})
}

// Refresh rotates the refresh token: the presented token is revoked
// and a brand new pair is returned.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))
	uid, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}

	resp, err := h.issueTokens(ctx, u.ID, u.Email, u.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// RefreshAccess issues a new access token without rotating the
// refresh token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Tokens.ValidateRefresh(ctx, utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken)))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout invalidates the presented refresh token. The endpoint does
// not require a JWT; possession of the refresh token is enough.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))
	if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated account. The JWTAuth middleware has
// already validated the token and stored sub/role in context.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Email: u.Email, Role: u.Role})
}

// issueTokens mints an access/refresh pair and stores the refresh
// hash.
func (h *AuthHandler) issueTokens(ctx context.Context, uid uint64, email, role string) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, uid, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    userPart{ID: uid, Email: email, Role: role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}

// getUserID extracts the numeric account ID that JWTAuth stored in
// context. JWT numeric claims decode as float64; string subjects are
// parsed as a fallback.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), nil
	case uint64:
		return v, nil
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return n, nil
	default:
		return 0, errAnonymous
	}
}

// errAnonymous signals that no authenticated identity is attached to
// the request context.
var errAnonymous = errors.New("no authenticated user in context")
