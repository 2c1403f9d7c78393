package tasks

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shwetank-antino/task-management-api/internal/httperr"
	"github.com/shwetank-antino/task-management-api/internal/users"
)

type Handler struct {
	store *Store
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{store: NewStore(db)}
}

type createTaskDTO struct {
	Title       string     `json:"title" binding:"required,min=3,max=100"`
	Description string     `json:"description"`
	Status      string     `json:"status" binding:"omitempty,oneof=pending done"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate" binding:"required"`
	Assignee    *uint      `json:"assignee"`
}

// updateTaskDTO uses pointer fields so a PATCH only touches what the body
// actually contains.
type updateTaskDTO struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=100"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending done"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
	Assignee    *uint      `json:"assignee"`
}

func (dto *updateTaskDTO) fields() []Field {
	var fs []Field
	if dto.Title != nil {
		fs = append(fs, FieldTitle)
	}
	if dto.Description != nil {
		fs = append(fs, FieldDescription)
	}
	if dto.Status != nil {
		fs = append(fs, FieldStatus)
	}
	if dto.Priority != nil {
		fs = append(fs, FieldPriority)
	}
	if dto.DueDate != nil {
		fs = append(fs, FieldDueDate)
	}
	if dto.Assignee != nil {
		fs = append(fs, FieldAssignee)
	}
	return fs
}

func taskIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, httperr.BadRequest("Invalid task id")
	}
	return uint(id), nil
}

func (h *Handler) Create(c *gin.Context) {
	who, ok := users.FromContext(c)
	if !ok {
		httperr.Respond(c, httperr.Unauthorized("Unauthorized"))
		return
	}

	var body createTaskDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	if body.Assignee != nil {
		if err := h.resolveAssignee(*body.Assignee); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	task := Task{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		DueDate:     *body.DueDate,
		AssigneeID:  body.Assignee,
		CreatedByID: who.ID,
	}
	if task.Status == "" {
		task.Status = StatusPending
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}

	if err := h.store.Create(&task); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    task,
	})
}

func (h *Handler) Get(c *gin.Context) {
	who, ok := users.FromContext(c)
	if !ok {
		httperr.Respond(c, httperr.Unauthorized("Unauthorized"))
		return
	}

	task, err := h.loadTask(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := Decide(who, task, ActionView); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *Handler) List(c *gin.Context) {
	who, ok := users.FromContext(c)
	if !ok {
		httperr.Respond(c, httperr.Unauthorized("Unauthorized"))
		return
	}

	filter := ListFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	tasks, err := h.store.List(VisibilityScope(who), filter)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if tasks == nil {
		tasks = []Task{}
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *Handler) Update(c *gin.Context) {
	who, ok := users.FromContext(c)
	if !ok {
		httperr.Respond(c, httperr.Unauthorized("Unauthorized"))
		return
	}

	var body updateTaskDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.Respond(c, httperr.FromBinding(err))
		return
	}

	requested := body.fields()
	if len(requested) == 0 {
		httperr.Respond(c, httperr.BadRequest("At least one field is required"))
		return
	}

	task, err := h.loadTask(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := DecideUpdate(who, task, requested); err != nil {
		httperr.Respond(c, err)
		return
	}

	if body.Assignee != nil {
		if err := h.resolveAssignee(*body.Assignee); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	if body.Title != nil {
		task.Title = *body.Title
	}
	if body.Description != nil {
		task.Description = *body.Description
	}
	if body.Status != nil {
		task.Status = *body.Status
	}
	if body.Priority != nil {
		task.Priority = *body.Priority
	}
	if body.DueDate != nil {
		task.DueDate = *body.DueDate
	}
	if body.Assignee != nil {
		task.AssigneeID = body.Assignee
	}

	if err := h.store.Save(task); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    task,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	who, ok := users.FromContext(c)
	if !ok {
		httperr.Respond(c, httperr.Unauthorized("Unauthorized"))
		return
	}

	task, err := h.loadTask(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := Decide(who, task, ActionDelete); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.store.Delete(task); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *Handler) Stats(c *gin.Context) {
	who, ok := users.FromContext(c)
	if !ok {
		httperr.Respond(c, httperr.Unauthorized("Unauthorized"))
		return
	}

	stats, err := h.store.Stats(VisibilityScope(who))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) loadTask(c *gin.Context) (*Task, error) {
	id, err := taskIDParam(c)
	if err != nil {
		return nil, err
	}
	task, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("Task not found")
		}
		return nil, err
	}
	return task, nil
}

func (h *Handler) resolveAssignee(id uint) error {
	exists, err := h.store.UserExists(id)
	if err != nil {
		return err
	}
	if !exists {
		return httperr.NotFound("Assignee user not found")
	}
	return nil
}
