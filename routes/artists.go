package routes

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"artist-marketplace-server/database"
	"artist-marketplace-server/models"
	"artist-marketplace-server/utils"
)

// RegisterArtistRoutes sets up the artist directory routes
func RegisterArtistRoutes(router *gin.RouterGroup) {
	artists := router.Group("/artists")
	{
		artists.GET("", listArtists)
		artists.GET("/nearby", findNearbyArtists)
		artists.GET("/:id/reviews", getArtistReviews)
	}
}

func listArtists(c *gin.Context) {
	query := database.DB.Preload("User").Model(&models.ArtistProfile{})

	if c.Query("verified") == "true" {
		query = query.Where("is_verified = ?", true)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}

	var profiles []models.ArtistProfile
	if err := query.Order("stage_name ASC").Find(&profiles).Error; err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": profiles, "count": len(profiles)})
}

// nearbyArtist pairs a profile with its distance from the search point.
type nearbyArtist struct {
	models.ArtistProfile
	DistanceKm float64 `json:"distance_km"`
}

func findNearbyArtists(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil || !utils.IsLocationValid(lat, lng) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Valid lat and lng are required"})
		return
	}

	radius := 25.0
	if r := c.Query("radius"); r != "" {
		parsed, err := strconv.ParseFloat(r, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Radius must be a positive number"})
			return
		}
		radius = parsed
	}

	var profiles []models.ArtistProfile
	err := database.DB.Preload("User").
		Where("base_lat IS NOT NULL AND base_lng IS NOT NULL AND is_verified = ?", true).
		Find(&profiles).Error
	if err != nil {
		renderError(c, err)
		return
	}

	nearby := make([]nearbyArtist, 0)
	for _, p := range profiles {
		distance := utils.HaversineDistance(lat, lng, *p.BaseLat, *p.BaseLng)
		if distance <= radius {
			nearby = append(nearby, nearbyArtist{ArtistProfile: p, DistanceKm: distance})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "data": nearby, "count": len(nearby)})
}

func getArtistReviews(c *gin.Context) {
	artistID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Invalid artist id"})
		return
	}

	var reviews []models.Review
	if err := database.DB.Preload("Client").
		Where("artist_id = ?", uint(artistID)).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		renderError(c, err)
		return
	}

	var average float64
	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Stars
		}
		average = float64(total) / float64(len(reviews))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reviews":       reviews,
			"count":         len(reviews),
			"average_stars": average,
		},
	})
}
