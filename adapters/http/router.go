package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scolardf/devconnector/pkg/logger"
)

type Handlers struct {
	Profile *ProfileHandler
	Github  *GithubHandler
}

type Middlewares struct {
	Auth gin.HandlerFunc
}

func NewRouter(h Handlers, m Middlewares, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(log), RequestLogger(log), ErrorMiddleware(log))

	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "API running...") })

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		profiles := api.Group("/profile")
		{
			profiles.GET("", h.Profile.ListProfiles)
			profiles.GET("/user/:user_id", h.Profile.GetProfileByUser)
			profiles.GET("/github/:username", h.Github.ListRepos)

			profiles.GET("/me", m.Auth, h.Profile.GetOwnProfile)
			profiles.POST("", m.Auth, BindJSON[UpsertProfileRequest](), h.Profile.UpsertProfile)
			profiles.DELETE("", m.Auth, h.Profile.DeleteAccount)

			profiles.PUT("/experience", m.Auth, BindJSON[AddExperienceRequest](), h.Profile.AddExperience)
			profiles.DELETE("/experience/:exp_id", m.Auth, h.Profile.RemoveExperience)

			profiles.PUT("/education", m.Auth, BindJSON[AddEducationRequest](), h.Profile.AddEducation)
			profiles.DELETE("/education/:edu_id", m.Auth, h.Profile.RemoveEducation)
		}
	}

	return router
}
