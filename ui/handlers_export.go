package ui

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketviz/adapters/export"
	"marketviz/domain/frame"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExportHistory downloads the full aggregate history as a workbook.
func (s *Server) handleExportHistory(c *gin.Context) {
	data, err := export.HistoryWorkbook(s.dataset)
	if err != nil {
		log.Printf("[Export] history workbook failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="simulation_history.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// handleExportDay downloads the rendered frame for one day, after the same
// down-sampling and coordinate fallback the map applies.
func (s *Server) handleExportDay(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 0 || day > s.dataset.MaxDay {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be within the dataset range"})
		return
	}

	f := frame.Select(s.dataset, day, s.frameOptions(c))
	data, err := export.FrameWorkbook(f)
	if err != nil {
		log.Printf("[Export] day %d workbook failed: %v", day, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="frame_day_%d.xlsx"`, day))
	c.Data(http.StatusOK, xlsxContentType, data)
}
