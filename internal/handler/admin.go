package handler

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"

	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/middleware"
	"digital-downloads-store/internal/repository"
	"digital-downloads-store/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AdminHandler struct {
	adminService      service.AdminService
	commentService    service.CommentService
	contactService    service.ContactService
	subscriberService service.SubscriberService
	orderRepo         repository.OrderRepository
}

func NewAdminHandler(
	adminService service.AdminService,
	commentService service.CommentService,
	contactService service.ContactService,
	subscriberService service.SubscriberService,
	orderRepo repository.OrderRepository,
) *AdminHandler {
	return &AdminHandler{
		adminService:      adminService,
		commentService:    commentService,
		contactService:    contactService,
		subscriberService: subscriberService,
		orderRepo:         orderRepo,
	}
}

func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.adminService.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, perPage := pageParams(c)
	filter := repository.UserFilter{
		Search:  c.QueryParam("search"),
		Page:    page,
		PerPage: perPage,
	}
	if raw := c.QueryParam("is_admin"); raw != "" {
		v, _ := strconv.ParseBool(raw)
		filter.IsAdmin = &v
	}
	if raw := c.QueryParam("verified"); raw != "" {
		v, _ := strconv.ParseBool(raw)
		filter.Verified = &v
	}

	users, err := h.adminService.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) SetUserAdmin(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.SetAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.adminService.SetUserAdmin(c.Request().Context(), id, *req.IsAdmin); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "User updated.")
}

func (h *AdminHandler) VerifyUser(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.adminService.VerifyUser(c.Request().Context(), id); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "User verified.")
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteUser(c.Request().Context(), middleware.CurrentUser(c).ID, id); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "User deleted.")
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	page, perPage := pageParams(c)
	orders, err := h.orderRepo.ListAdmin(c.Request().Context(), page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) GetOrder(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderRepo.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found.")
		}
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *AdminHandler) ListComments(c echo.Context) error {
	page, perPage := pageParams(c)
	comments, err := h.commentService.ListAdmin(c.Request().Context(), page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *AdminHandler) ModerateComment(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.CommentModerationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentService.Moderate(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

func (h *AdminHandler) ApproveComment(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.commentService.Approve(c.Request().Context(), id); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "Comment published.")
}

func (h *AdminHandler) DeleteComment(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.commentService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "Comment deleted.")
}

func (h *AdminHandler) ListMessages(c echo.Context) error {
	page, perPage := pageParams(c)
	messages, err := h.contactService.ListAdmin(c.Request().Context(), page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}

func (h *AdminHandler) MarkMessageRead(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.contactService.MarkRead(c.Request().Context(), id); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "Message marked as read.")
}

func (h *AdminHandler) ListSubscribers(c echo.Context) error {
	page, perPage := pageParams(c)
	subscribers, active, unsubscribed, err := h.subscriberService.ListAdmin(c.Request().Context(), page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"subscribers":  subscribers,
		"active":       active,
		"unsubscribed": unsubscribed,
	})
}

func (h *AdminHandler) NewsletterStats(c echo.Context) error {
	stats, err := h.subscriberService.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ExportSubscribers streams the active subscriber list as CSV.
func (h *AdminHandler) ExportSubscribers(c echo.Context) error {
	subscribers, err := h.subscriberService.ExportActive(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="subscribers.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"email", "first_name", "last_name", "subscribed_at"}); err != nil {
		return err
	}
	for _, sub := range subscribers {
		row := []string{sub.Email, sub.FirstName, sub.LastName, sub.SubscribedAt.Format("2006-01-02 15:04:05")}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (h *AdminHandler) SendNewsletter(c echo.Context) error {
	var req dto.NewsletterSendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sent, err := h.subscriberService.SendCampaign(c.Request().Context(), req.Subject, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Newsletter queued.",
		"sent_to": sent,
	})
}
