// Package server exposes the tool registry over HTTP as JSON tool calls.
package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adamjmurray/producer-pal-sub000/notation"
	"github.com/adamjmurray/producer-pal-sub000/tools"
)

// New builds the HTTP engine for a tool registry.
func New(registry *tools.Registry) *gin.Engine {
	r := gin.Default()

	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())

	r.GET("/health", healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/tools", listTools(registry))
		v1.POST("/tools/:name", callTool(registry))
	}

	return r
}

// Run serves the registry on the given port until the listener fails.
func Run(registry *tools.Registry, port int) error {
	return New(registry).Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Request-Id", uuid.NewString())
		c.Next()
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "producer-pal",
	})
}

func listTools(registry *tools.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tools": registry.Tools()})
	}
}

func callTool(registry *tools.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		args := map[string]any{}
		if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
			return
		}

		result, err := registry.Execute(c.Request.Context(), name, args)
		if err != nil {
			status, kind := classify(err)
			body := gin.H{"error": err.Error()}
			if kind != "" {
				body["kind"] = kind
			}
			c.JSON(status, body)
			return
		}

		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

// classify maps codec errors to 400 with their kind so a model can tell a
// bad notation string from a broken host.
func classify(err error) (int, string) {
	var syntaxErr *notation.SyntaxError
	if errors.As(err, &syntaxErr) {
		return http.StatusBadRequest, "syntax"
	}
	var rangeErr *notation.RangeError
	if errors.As(err, &rangeErr) {
		return http.StatusBadRequest, "range"
	}
	var sigErr *notation.TimeSignatureError
	if errors.As(err, &sigErr) {
		return http.StatusBadRequest, "time_signature"
	}
	if errors.Is(err, tools.ErrUnknownTool) {
		return http.StatusNotFound, ""
	}
	return http.StatusInternalServerError, ""
}
