package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var prodOrigins = []string{
	"https://edutainment.onrender.com",
}

var debugOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8000",
	"http://35.160.120.126",
	"http://44.233.151.27",
	"https://edutainment.onrender.com",
	"http://34.211.200.85",
}

// AllowedOrigins returns the browser origins CORS accepts in each mode.
func AllowedOrigins(debug bool) []string {
	if debug {
		return append([]string(nil), debugOrigins...)
	}
	return append([]string(nil), prodOrigins...)
}

func CORS(debug bool) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     AllowedOrigins(debug),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Trace-Id", "X-Request-Id"},
		AllowCredentials: true,
	})
}
