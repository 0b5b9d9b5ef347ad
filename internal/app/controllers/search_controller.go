package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oguzk/schoolatlas/internal/app/services"
	"github.com/oguzk/schoolatlas/internal/middleware"
)

// SearchController handles free-text name search
type SearchController struct {
	searchService services.SearchService
}

// NewSearchController creates a new SearchController
func NewSearchController(searchService services.SearchService) *SearchController {
	return &SearchController{
		searchService: searchService,
	}
}

// Search matches schools and students by name substring
// @Summary Search schools and students
// @Description Case-insensitive substring search over school and student names; school hits come first
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} interface{} "Search results"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /search [get]
func (c *SearchController) Search(ctx *gin.Context) {
	query := ctx.Query("q")

	results, err := c.searchService.Search(ctx, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, results)
}
