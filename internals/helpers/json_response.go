// file: internals/helpers/json_response.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Pagination type & defaults
=================================*/

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

/* ===============================
   Paging resolver (query → page/perPage/offset)
=================================*/

type Paging struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

// ResolvePaging reads ?page= & ?per_page= and normalizes both.
func ResolvePaging(c *fiber.Ctx, defaultPerPage, maxPerPage int) Paging {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	perPage := c.QueryInt("per_page", defaultPerPage)
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}

	return Paging{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
		Limit:   perPage,
	}
}

func BuildPaginationFromPage(total int64, page, perPage int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage)) // ceil
	if totalPages == 0 {
		totalPages = 1
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

/* ===============================
   Error helpers (standard shape)
=================================*/

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

func statusToErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}

// JsonError: generic error response (non-validation)
func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = fiber.ErrInternalServerError.Message
	}
	return c.Status(status).JSON(ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: statusToErrorCode(status),
	})
}

// ErrorHandler renders every error returned by a handler through the
// standard envelope. Services return *fiber.Error with the proper status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}

/* ===============================
   JSON responses (standard success)
=================================*/

// JsonList: list with pagination (GET /list etc)
func JsonList(c *fiber.Ctx, message string, data any, pagination Pagination) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"message":    message,
		"data":       data,
		"pagination": pagination,
	})
}

// JsonOK: generic success response (GET detail etc)
func JsonOK(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JsonCreated: success response for create (POST)
func JsonCreated(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "created"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JsonUpdated: success response for update (PATCH/PUT)
func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "updated"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}
