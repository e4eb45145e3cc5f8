package cascade

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/cascade/errors"
)

// Handler serves the cascade endpoint for engine. The JSON body is the
// payload; an empty body is the zero payload. A request carrying the
// cascade-disable marker runs only locally and is answered with the local
// Result, which is what a coordinating node parses. Any other request
// cascades and is answered with the full Results.
func Handler[T any](engine *Engine[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload T
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			appErr := errors.InvalidInput("body", err.Error())
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				appErr := errors.InvalidInput("body", err.Error())
				c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
				return
			}
		}

		if suppressed(engine.marker, c.Request.URL.Query()) {
			results := engine.RunLocal(c.Request.Context(), payload)
			local, _ := results.Local()
			c.JSON(http.StatusOK, local)
			return
		}
		c.JSON(http.StatusOK, engine.Run(c.Request.Context(), payload, true))
	}
}

// suppressed reports whether query carries every pair of the marker.
func suppressed(marker, query url.Values) bool {
	if len(marker) == 0 {
		return false
	}
	for key, values := range marker {
		got, ok := query[key]
		if !ok {
			return false
		}
		for _, want := range values {
			if !slices.Contains(got, want) {
				return false
			}
		}
	}
	return true
}
