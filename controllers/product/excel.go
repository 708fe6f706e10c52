package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/response"
	"github.com/junaidrashid-git/commerce-api/services"
	"github.com/junaidrashid-git/commerce-api/spreadsheet"
)

// POST /api/admin/products/import-excel (multipart field "file")
func ImportProductsFromExcel(s *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Excel file is required")
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, "Failed to open Excel file")
			return
		}
		defer file.Close()

		rows, rowErrors, err := spreadsheet.Read(file, excelFileHeader.Size)
		if err != nil {
			response.Error(c, err)
			return
		}

		result, err := s.Import(c.Request.Context(), rows)
		if err != nil {
			response.Error(c, err)
			return
		}
		result.Errors = append(rowErrors, result.Errors...)
		response.Message(c, result, "Import completed")
	}
}
