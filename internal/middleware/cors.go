package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

// CORS allows browser calls from the configured origins. allowedOrigin is
// either "*" or a comma-separated list.
func CORS(allowedOrigin string) gin.HandlerFunc {
	var origins []string
	for _, o := range strings.Split(allowedOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300, // 5 minutes
		// Preflights reach the inner handler so gin answers them with 204.
		OptionsPassthrough: true,
	})

	return func(c *gin.Context) {
		handler.Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			if isPreflight(r) {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
	}
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}
