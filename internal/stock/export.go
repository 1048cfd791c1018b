package stock

import (
	"fmt"
	"time"

	"asador-backend/internal/database"
	"asador-backend/internal/logger"
	"asador-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// GET /api/stock/history/export
// Full ledger as an Excel workbook for back-office auditing.
func ExportHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var entries []models.StockHistory
		if err := database.DB.
			Order("created_at ASC, id ASC").
			Find(&entries).Error; err != nil {
			logger.L().Error("error al obtener el historial de stock", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al obtener el historial de stock")
		}

		f := excelize.NewFile()
		sheet := "Historial"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"ID", "Stock", "Fecha", "Acción", "Cantidad", "Stock anterior", "Stock nuevo", "Origen", "Pedido"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for row, e := range entries {
			orderRef := ""
			if e.OrderID != nil {
				orderRef = fmt.Sprintf("%d", *e.OrderID)
			}
			values := []interface{}{
				e.ID,
				e.StockID,
				e.CreatedAt.Format("2006-01-02 15:04:05"),
				string(e.Action),
				e.Quantity.StringFixed(1),
				e.PreviousStock.StringFixed(1),
				e.NewStock.StringFixed(1),
				string(e.CreatedBy),
				orderRef,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			logger.L().Error("error al generar el Excel", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Error al generar el archivo")
		}

		filename := fmt.Sprintf("historial-stock-%s.xlsx", time.Now().Format("20060102"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
		return c.Send(buf.Bytes())
	}
}
