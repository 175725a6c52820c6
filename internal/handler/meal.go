package handler

import (
	"strconv"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
	"longevityhub/internal/service"

	"github.com/gin-gonic/gin"
)

type MealHandler struct{ meals *service.MealService }

func NewMealHandler(meals *service.MealService) *MealHandler { return &MealHandler{meals: meals} }

func (h *MealHandler) Create(c *gin.Context) {
	var req model.MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	meal, err := h.meals.Create(c.Request.Context(), session(c).UserID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"meal": meal})
}

func (h *MealHandler) List(c *gin.Context) {
	sess := session(c)
	meals, err := h.meals.List(c.Request.Context(), sess.UserID, c.Query("range"), todayFor(sess))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"rows": meals})
}

func (h *MealHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	meal, err := h.meals.Get(c.Request.Context(), session(c).UserID, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"meal": meal})
}

func (h *MealHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req model.MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	meal, err := h.meals.Update(c.Request.Context(), session(c).UserID, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"meal": meal})
}

func (h *MealHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.meals.Delete(c.Request.Context(), session(c).UserID, id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

func pathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, apperr.E(apperr.Validation, "invalid id")
	}
	return id, nil
}
