package router

import (
	"banditLab/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetAuthRoutes(api *echo.Group, handler *rest.AuthHandler, authRequired echo.MiddlewareFunc) {
	auth := api.Group("/auth")
	auth.POST("/token", handler.Token)
	auth.DELETE("/token", handler.Revoke, authRequired)
}

func SetEnvironmentRoutes(api *echo.Group, handler *rest.EnvironmentHandler, authRequired echo.MiddlewareFunc) {
	envs := api.Group("/environments", authRequired)

	envs.POST("", handler.Create)
	envs.GET("/:id", handler.Get)
	envs.POST("/:id/step", handler.Step)
	envs.GET("/:id/means", handler.Means)
	envs.GET("/:id/regrets", handler.Regrets)
	envs.GET("/:id/features", handler.Features)
	envs.GET("/:id/specs", handler.Specs)
	envs.GET("/:id/expected-reward", handler.ExpectedReward)
	envs.GET("/:id/optimal-reward", handler.OptimalExpectedReward)
	envs.DELETE("/:id", handler.Delete)
}

func SetExperimentRoutes(api *echo.Group, handler *rest.ExperimentHandler, authRequired echo.MiddlewareFunc) {
	experiments := api.Group("/experiments", authRequired)

	experiments.POST("", handler.Run)
	experiments.GET("", handler.List)
	experiments.GET("/:id", handler.Get)
	experiments.GET("/:id/steps", handler.Steps)
}
