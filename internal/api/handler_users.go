package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"training-portal-backend/internal/model"
)

// ListTrainers returns all trainers.
func (h *Handler) ListTrainers(c *gin.Context) {
	trainers, err := h.store.ListTrainers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trainers": trainers})
}

type createTrainerBody struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
}

// CreateTrainer registers a trainer.
func (h *Handler) CreateTrainer(c *gin.Context) {
	var body createTrainerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	trainer := model.Trainer{
		Name:           body.Name,
		Email:          body.Email,
		Phone:          body.Phone,
		Specialization: body.Specialization,
	}
	if err := h.store.CreateTrainer(c.Request.Context(), &trainer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trainer)
}

// ListClients returns all clients with their priority scores.
func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.store.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

type createClientBody struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Phone         string `json:"phone"`
	PriorityScore int    `json:"priorityScore"`
}

// CreateClient registers a client.
func (h *Handler) CreateClient(c *gin.Context) {
	var body createClientBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client := model.Client{
		Name:          body.Name,
		Email:         body.Email,
		Phone:         body.Phone,
		PriorityScore: body.PriorityScore,
	}
	if err := h.store.CreateClient(c.Request.Context(), &client); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

type updatePriorityBody struct {
	PriorityScore *int `json:"priorityScore" binding:"required"`
}

// UpdateClientPriority sets a client's priority score. The new score takes
// effect on the next resolution; already-applied resolutions are not revisited.
func (h *Handler) UpdateClientPriority(c *gin.Context) {
	var body updatePriorityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if err := h.store.UpdateClientPriority(c.Request.Context(), id, *body.PriorityScore); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "priorityScore": *body.PriorityScore})
}
