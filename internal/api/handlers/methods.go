package handlers

import (
	"net/http"

	"solar-risk/internal/api/models"
	"solar-risk/internal/detrend"

	"github.com/gin-gonic/gin"
)

// ListMethods handles GET /api/v1/methods
func ListMethods(c *gin.Context) {
	methods := []models.MethodInfo{
		{
			Name:        detrend.MethodLinear,
			Description: "Ordinary least squares trend over the annual series",
		},
		{
			Name:        detrend.MethodKernel,
			Description: "Gaussian kernel smoother over the annual series",
			Parameters: []models.ParameterInfo{
				{
					Name:        "bandwidth",
					Type:        "float",
					Description: "Kernel bandwidth in years; wider means smoother",
					Default:     3.0,
				},
			},
		},
		{
			Name:        detrend.MethodNone,
			Description: "No detrending; the annual series is priced as-is",
		},
	}

	c.JSON(http.StatusOK, gin.H{"methods": methods})
}
