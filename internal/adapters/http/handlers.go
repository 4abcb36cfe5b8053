package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/ports"
)

// Client-facing error messages
const (
	msgInvalidBody = "invalid request body"
	msgNotFound    = "todo not found"
	msgSaveFailed  = "failed to save todos"
	msgLoadFailed  = "failed to load todos"
)

// TodoHandler handles todo-related requests
type TodoHandler struct {
	todoService ports.TodoService
	logger      *logger.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoService ports.TodoService, logger *logger.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		logger:      logger.WithComponent("todo_handler"),
	}
}

// Register mounts the todo routes on g
func (h *TodoHandler) Register(g *echo.Group) {
	g.GET("/todos", h.ListTodos)
	g.POST("/todos", h.CreateTodo)
	g.PUT("/todos/:id", h.UpdateTodo)
	g.POST("/todos/:id/toggle", h.ToggleTodo)
	g.DELETE("/todos/:id", h.DeleteTodo)
}

// ListTodos godoc
// @Summary      List todos
// @Tags         Todos
// @Produce      json
// @Success      200  {object}  ports.DataResponse[[]entities.Todo]
// @Router       /api/todos [get]
func (h *TodoHandler) ListTodos(c echo.Context) error {
	todos, err := h.todoService.ListTodos(c.Request().Context())
	if err != nil {
		h.requestLogger(c).WithError(err).Errorw("List todos failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgLoadFailed).SetInternal(err)
	}

	return c.JSON(http.StatusOK, ports.DataResponse[[]entities.Todo]{Data: todos})
}

// CreateTodo godoc
// @Summary      Create a todo
// @Tags         Todos
// @Accept       json
// @Produce      json
// @Param        todo  body      ports.CreateTodoRequest  true  "New todo"
// @Success      201   {object}  ports.DataResponse[entities.Todo]
// @Failure      400   {object}  ports.ErrorResponse
// @Router       /api/todos [post]
func (h *TodoHandler) CreateTodo(c echo.Context) error {
	var req ports.CreateTodoRequest
	if err := decodeBody(c, &req); err != nil {
		return h.toHTTPError(c, "create", "", err)
	}

	todo, err := h.todoService.CreateTodo(c.Request().Context(), req)
	if err != nil {
		return h.toHTTPError(c, "create", "", err)
	}

	return c.JSON(http.StatusCreated, ports.DataResponse[*entities.Todo]{Data: todo})
}

// UpdateTodo godoc
// @Summary      Update a todo
// @Description  Only the fields present in the body are changed.
// @Tags         Todos
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Todo ID"
// @Param        todo  body      ports.UpdateTodoRequest  true  "Fields to change"
// @Success      200   {object}  ports.DataResponse[entities.Todo]
// @Failure      400   {object}  ports.ErrorResponse
// @Failure      404   {object}  ports.ErrorResponse
// @Router       /api/todos/{id} [put]
func (h *TodoHandler) UpdateTodo(c echo.Context) error {
	id := c.Param("id")

	var req ports.UpdateTodoRequest
	if err := decodeBody(c, &req); err != nil {
		return h.toHTTPError(c, "update", id, err)
	}

	todo, err := h.todoService.UpdateTodo(c.Request().Context(), id, req)
	if err != nil {
		return h.toHTTPError(c, "update", id, err)
	}

	return c.JSON(http.StatusOK, ports.DataResponse[*entities.Todo]{Data: todo})
}

// ToggleTodo godoc
// @Summary      Toggle completion
// @Tags         Todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  ports.DataResponse[entities.Todo]
// @Failure      404  {object}  ports.ErrorResponse
// @Router       /api/todos/{id}/toggle [post]
func (h *TodoHandler) ToggleTodo(c echo.Context) error {
	id := c.Param("id")

	todo, err := h.todoService.ToggleTodo(c.Request().Context(), id)
	if err != nil {
		return h.toHTTPError(c, "toggle", id, err)
	}

	return c.JSON(http.StatusOK, ports.DataResponse[*entities.Todo]{Data: todo})
}

// DeleteTodo godoc
// @Summary      Delete a todo
// @Tags         Todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  ports.DataResponse[entities.Todo]
// @Failure      404  {object}  ports.ErrorResponse
// @Router       /api/todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(c echo.Context) error {
	id := c.Param("id")

	todo, err := h.todoService.DeleteTodo(c.Request().Context(), id)
	if err != nil {
		return h.toHTTPError(c, "delete", id, err)
	}

	return c.JSON(http.StatusOK, ports.DataResponse[*entities.Todo]{Data: todo})
}

func (h *TodoHandler) requestLogger(c echo.Context) *logger.Logger {
	return h.logger.WithRequestID(c.Response().Header().Get(echo.HeaderXRequestID))
}

// toHTTPError maps service errors onto status codes and client messages
func (h *TodoHandler) toHTTPError(c echo.Context, op, id string, err error) error {
	var ve *entities.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error()).SetInternal(err)
	case errors.Is(err, entities.ErrTodoNotFound):
		return echo.NewHTTPError(http.StatusNotFound, msgNotFound).SetInternal(err)
	case errors.Is(err, entities.ErrInvalidBody):
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody).SetInternal(err)
	}

	h.requestLogger(c).WithError(err).Errorw("Todo operation failed", "op", op, "todo_id", id)
	return echo.NewHTTPError(http.StatusInternalServerError, msgSaveFailed).SetInternal(err)
}

// decodeBody reads a single JSON value regardless of Content-Type. An
// empty body leaves v untouched; anything after the value is rejected.
func decodeBody(c echo.Context, v interface{}) error {
	if c.Request().ContentLength == 0 {
		return nil
	}

	dec := json.NewDecoder(c.Request().Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var ve *entities.ValidationError
		if errors.As(err, &ve) || errors.Is(err, entities.ErrInvalidBody) {
			return err
		}
		return fmt.Errorf("%w: %v", entities.ErrInvalidBody, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON value", entities.ErrInvalidBody)
	}
	return nil
}

// ErrorHandler renders every error as {"error": message}
func ErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  = http.StatusText(http.StatusInternalServerError)
		)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprint(he.Message)
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if c.Response().Committed {
			return
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ports.ErrorResponse{Error: msg})
		}
		if err != nil {
			logger.Errorw("Error sending response", "error", err)
		}
	}
}
