package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seotest/models"
	"github.com/use-agent/seotest/transform"
)

// PostTestData returns a handler for POST /api/v1/test-data converting a
// scrape document into test cases.
func PostTestData() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TestDataRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.TestDataResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		if field := req.Missing(); field != "" {
			c.JSON(http.StatusBadRequest, models.TestDataResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "missing required field: " + field,
				},
			})
			return
		}

		cases, err := transform.TransformDocument(req.Scraped, *req.ID, *req.IDPage)
		if err != nil {
			var inErr *models.InputError
			if errors.As(err, &inErr) {
				c.JSON(http.StatusBadRequest, models.TestDataResponse{Error: inErr.ToDetail()})
				return
			}
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.TestDataResponse{
			Success:  true,
			Count:    len(cases),
			TestData: cases,
		})
	}
}
