package handlers

import (
	"net/http"

	"mindwell/services/availability"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindwell/utils"
)

// AvailabilityHandler exposes the availability engine over HTTP.
type AvailabilityHandler struct {
	Engine availability.AvailabilityEngine
	Logger *zap.Logger
}

func NewAvailabilityHandler(engine availability.AvailabilityEngine, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine, Logger: logger}
}

type availabilityQuery struct {
	PsychologistID string `json:"psychologistId"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Timezone       string `json:"timezone"`
}

// CheckAvailability answers whether one psychologist can take the window.
func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	var input availabilityQuery
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	available, err := h.Engine.CheckTimeSlotAvailability(
		input.PsychologistID, input.Date, input.StartTime, input.EndTime, input.Timezone)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

type batchAvailabilityQuery struct {
	PsychologistIDs []string `json:"psychologistIds"`
	Date            string   `json:"date"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	Timezone        string   `json:"timezone"`
}

// BatchCheckAvailability answers the same question for many psychologists at once.
func (h *AvailabilityHandler) BatchCheckAvailability(c *gin.Context) {
	var input batchAvailabilityQuery
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Engine.BatchCheckAvailabilityForDate(
		input.PsychologistIDs, input.Date, input.StartTime, input.EndTime, input.Timezone)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": result})
}
