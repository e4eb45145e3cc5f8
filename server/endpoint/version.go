package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/cascade/version"
)

// Version returns a handler that reports build information.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		info := version.Get()
		c.JSON(http.StatusOK, gin.H{
			"name":       version.Name,
			"version":    info.Version,
			"git_commit": info.GitCommit,
			"git_branch": info.GitBranch,
			"build_time": info.BuildTime,
			"go_version": info.GoVersion,
			"is_release": info.IsRelease(),
			"dirty":      info.Dirty,
		})
	}
}
