package public

import (
	"net/http"

	"github.com/woodnest/woodnest/internal/service"

	"github.com/gin-gonic/gin"
)

// identityFrom 解析请求身份：登录用户取 user_id，游客取 session_id。
// 两者都缺失时直接响应 401 并返回 false。
func identityFrom(c *gin.Context) (service.Identity, bool) {
	if value, exists := c.Get("user_id"); exists {
		if uid, ok := value.(uint); ok && uid > 0 {
			return service.Identity{UserID: uid}, true
		}
	}
	if value, exists := c.Get("session_id"); exists {
		if sid, ok := value.(string); ok && sid != "" {
			return service.Identity{SessionID: sid}, true
		}
	}
	respondError(c, http.StatusUnauthorized, "missing identity: sign in or supply a session id", nil)
	return service.Identity{}, false
}
