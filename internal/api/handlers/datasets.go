package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"solar-risk/internal/api/models"

	"github.com/gin-gonic/gin"
)

// DatasetsHandler lists the CSV files the server can simulate.
type DatasetsHandler struct {
	dataDir string
}

func NewDatasetsHandler(dataDir string) *DatasetsHandler {
	return &DatasetsHandler{dataDir: dataDir}
}

// ListDatasets handles GET /api/v1/datasets
func (h *DatasetsHandler) ListDatasets(c *gin.Context) {
	entries, err := os.ReadDir(h.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, gin.H{"datasets": []models.DatasetInfo{}, "count": 0})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATASET_LIST_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	datasets := make([]models.DatasetInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".csv" && ext != ".tsv" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		datasets = append(datasets, models.DatasetInfo{
			Name:      entry.Name(),
			SizeBytes: info.Size(),
		})
	}
	sort.Slice(datasets, func(i, j int) bool { return datasets[i].Name < datasets[j].Name })

	c.JSON(http.StatusOK, gin.H{
		"datasets": datasets,
		"count":    len(datasets),
	})
}
