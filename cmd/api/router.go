package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/middleware"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	authn := middleware.Auth(c.JWTManager, c.Cache)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		// Auth
		auth := v1.Group("/auth")
		{
			auth.POST("/register", c.UserHandler.Register)
			auth.POST("/login", c.UserHandler.Login)
			auth.POST("/logout", authn, c.UserHandler.Logout)
			auth.POST("/refresh", c.UserHandler.RefreshToken)
		}

		// Own profile and own loans
		me := v1.Group("/users/me")
		me.Use(authn)
		{
			me.GET("", c.UserHandler.GetProfile)
			me.PUT("", c.UserHandler.UpdateProfile)
			me.GET("/loans", c.LoanHandler.ListOwnLoans)
		}

		// User administration
		adminUsers := v1.Group("/admin/users")
		adminUsers.Use(authn, middleware.RequireRole(user.RoleAdmin.String()))
		{
			adminUsers.GET("", c.UserHandler.ListUsers)
			adminUsers.POST("", c.UserHandler.CreateUser)
			adminUsers.PUT("/:id", c.UserHandler.UpdateUser)
			adminUsers.DELETE("/:id", c.UserHandler.DeleteUser)
		}

		// Catalog: authors
		authors := v1.Group("/authors")
		{
			authors.GET("", c.AuthorHandler.List)
			authors.GET("/:id", c.AuthorHandler.GetByID)
		}
		librarianAuthors := v1.Group("/authors")
		librarianAuthors.Use(authn, middleware.RequireRole(user.RoleLibrarian.String()))
		{
			librarianAuthors.POST("", c.AuthorHandler.Create)
			librarianAuthors.PUT("/:id", c.AuthorHandler.Update)
			librarianAuthors.DELETE("/:id", c.AuthorHandler.Delete)
		}

		// Catalog: books
		books := v1.Group("/books")
		{
			books.GET("", c.BookHandler.List)
			books.GET("/:id", c.BookHandler.GetByID)
		}
		librarianBooks := v1.Group("/books")
		librarianBooks.Use(authn, middleware.RequireRole(user.RoleLibrarian.String()))
		{
			librarianBooks.POST("", c.BookHandler.Create)
			librarianBooks.PUT("/:id", c.BookHandler.Update)
			librarianBooks.DELETE("/:id", c.BookHandler.Delete)
		}

		// Circulation
		v1.POST("/books/:id/borrow", authn, c.LoanHandler.Borrow)
		v1.POST("/loans/:id/return", authn, c.LoanHandler.Return)

		// Loan history administration
		history := v1.Group("/history")
		history.Use(authn, middleware.RequireRole(user.RoleLibrarian.String()))
		{
			history.GET("", c.LoanHandler.ListHistory)
			history.POST("", c.LoanHandler.CreateEntry)
			history.PUT("/:id", c.LoanHandler.UpdateEntry)
			history.DELETE("/:id", c.LoanHandler.DeleteEntry)
		}
	}

	return router
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"services":  gin.H{},
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = "error: " + err.Error()
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = "error: " + err.Error()
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
