package httpapi

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophcal/internal/common"
	"github.com/dmitrijs2005/gophcal/internal/logging"
	"github.com/dmitrijs2005/gophcal/internal/server/calendar"
	"github.com/dmitrijs2005/gophcal/internal/server/schedules"
	"github.com/dmitrijs2005/gophcal/internal/server/users"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	users     *users.Service
	schedules *schedules.Service
	logger    logging.Logger
	now       func() time.Time
}

func NewHandler(us *users.Service, ss *schedules.Service, l logging.Logger) *Handler {
	return &Handler{
		users:     us,
		schedules: ss,
		logger:    l,
		now:       time.Now,
	}
}

// Fields are pointers so a missing field can be told apart from an empty one.
type credentialsRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// UserID and ID are accepted for compatibility and ignored; the owner is
// always the token subject.
type scheduleRequest struct {
	ID     *int    `json:"id,omitempty"`
	UserID *int    `json:"user_id,omitempty"`
	Title  *string `json:"title"`
	Date   *string `json:"date"`
}

func (h *Handler) bindCredentials(c echo.Context) (string, string, bool) {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil || req.Username == nil || req.Password == nil {
		return "", "", false
	}
	return *req.Username, *req.Password, true
}

// Register --> POST /register
func (h *Handler) Register(c echo.Context) error {
	username, password, ok := h.bindCredentials(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, MsgInvalidBody)
	}

	if _, err := h.users.Register(c.Request().Context(), username, password); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, MsgRegistered)
}

// Login --> POST /login. The body is the token as a JSON string.
func (h *Handler) Login(c echo.Context) error {
	username, password, ok := h.bindCredentials(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, MsgInvalidBody)
	}

	token, err := h.users.Login(c.Request().Context(), username, password)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, token)
}

// AddSchedule --> POST /schedules
func (h *Handler) AddSchedule(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MsgUnauthorized)
	}

	var req scheduleRequest
	if err := c.Bind(&req); err != nil || req.Title == nil || req.Date == nil {
		return c.JSON(http.StatusBadRequest, MsgInvalidBody)
	}

	if _, err := h.schedules.Add(c.Request().Context(), userID, *req.Title, *req.Date); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, MsgScheduleAdded)
}

// ListSchedules --> GET /schedules
func (h *Handler) ListSchedules(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MsgUnauthorized)
	}

	list, err := h.schedules.List(c.Request().Context(), userID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// DeleteSchedule --> DELETE /schedules/:id
func (h *Handler) DeleteSchedule(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MsgUnauthorized)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, MsgInvalidID)
	}

	if err := h.schedules.Delete(c.Request().Context(), id, userID); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, MsgScheduleDeleted)
}

// FriendSchedules --> GET /friends_schedules/:friend_id
func (h *Handler) FriendSchedules(c echo.Context) error {
	friendID, err := strconv.Atoi(c.Param("friend_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, MsgInvalidID)
	}

	list, err := h.schedules.FriendSchedules(c.Request().Context(), friendID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// ExportCalendar --> GET /schedules.ics
func (h *Handler) ExportCalendar(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MsgUnauthorized)
	}

	list, err := h.schedules.List(c.Request().Context(), userID)
	if err != nil {
		return h.fail(c, err)
	}

	var buf bytes.Buffer
	if err := calendar.Render(&buf, list, h.now()); err != nil {
		return h.fail(c, err)
	}

	return c.Blob(http.StatusOK, calendar.MIMEType+"; charset=utf-8", buf.Bytes())
}

// Health --> GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": common.ServiceName,
		"time":    h.now().Format(time.RFC3339),
	})
}
