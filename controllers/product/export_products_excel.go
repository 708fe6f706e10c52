package productcontroller

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/response"
	"github.com/junaidrashid-git/commerce-api/services"
	"github.com/junaidrashid-git/commerce-api/spreadsheet"
)

// GET /api/admin/products/export
func ExportProductsToExcel(s *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := s.All(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}

		file, err := spreadsheet.Build(products)
		if err != nil {
			response.Error(c, err)
			return
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", spreadsheet.ContentType)
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			// headers are already out; nothing useful can be sent
			slog.ErrorContext(c.Request.Context(), "excel export failed", "error", err)
		}
	}
}
