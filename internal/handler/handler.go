package handler

import (
	"strconv"

	"tontine-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errno.ErrBind.WithMessagef("%s must be a valid positive integer", name)
	}
	return id, nil
}
