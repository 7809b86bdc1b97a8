package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ConfigCORS allows requests from localhost plus the comma-separated list of
// configured domains.
func ConfigCORS(allowedDomains string) gin.HandlerFunc {
	domains := strings.Split(allowedDomains, ",")

	return cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			if strings.HasPrefix(origin, "http://localhost") {
				return true
			}

			for _, domain := range domains {
				if strings.Contains(origin, strings.TrimSpace(domain)) {
					return true
				}
			}

			return false
		},
		MaxAge: 12 * time.Hour,
	})
}
