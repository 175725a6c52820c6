package handler

import (
	"strconv"

	"longevityhub/internal/service"

	"github.com/gin-gonic/gin"
)

type FoodHandler struct{ catalog *service.CatalogService }

func NewFoodHandler(catalog *service.CatalogService) *FoodHandler {
	return &FoodHandler{catalog: catalog}
}

func (h *FoodHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	foods, err := h.catalog.Search(c.Request.Context(), c.Query("query"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"rows": foods})
}
