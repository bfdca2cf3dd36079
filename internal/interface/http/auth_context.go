package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/media-album/internal/domain/auth"
)

const identityKey = "auth_identity"

func setIdentity(c *gin.Context, id auth.Identity) {
	c.Set(identityKey, id)
}

func getIdentity(c *gin.Context) (auth.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := value.(auth.Identity)
	return id, ok
}
