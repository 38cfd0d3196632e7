package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/Adeel3330/agile-next-sub002/internal/services"
	"github.com/gin-gonic/gin"
)

const maxAuditBody = 2000

var sensitiveKeys = map[string]bool{
	"password":        true,
	"currentpassword": true,
	"newpassword":     true,
	"token":           true,
	"refreshtoken":    true,
	"accesstoken":     true,
	"secret":          true,
	"apikey":          true,
}

// AuditLog records admin write operations (POST/PUT/PATCH/DELETE) to
// system_logs.
func AuditLog(logs *services.SystemLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut &&
			method != http.MethodPatch && method != http.MethodDelete {
			c.Next()
			return
		}

		var bodySnippet string
		if c.Request.Body != nil && !strings.HasPrefix(c.ContentType(), "multipart/") {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bodySnippet = maskSensitiveFields(bodyBytes)
			if len(bodySnippet) > maxAuditBody {
				bodySnippet = bodySnippet[:maxAuditBody] + "...[truncated]"
			}
		}

		c.Next()

		status := c.Writer.Status()
		module, action := parseRouteInfo(c.FullPath(), method)
		level := "info"
		if status >= http.StatusBadRequest {
			level = "warning"
		}

		logs.Record(level, module, action,
			formatAuditMessage(GetEmail(c), method, c.Request.URL.Path, status),
			AdminIDPtr(c), c.ClientIP(), c.Request.UserAgent(),
			map[string]interface{}{
				"method": method,
				"path":   c.Request.URL.Path,
				"status": status,
				"body":   bodySnippet,
			})
	}
}

// parseRouteInfo derives module and action from a gin route pattern:
// "/api/admin/pages/:id" + PUT gives ("pages", "update").
func parseRouteInfo(fullPath, method string) (module, action string) {
	path := strings.TrimPrefix(fullPath, "/api/")
	path = strings.TrimPrefix(path, "admin/")

	module = strings.SplitN(path, "/", 2)[0]
	if module == "" {
		module = "unknown"
	}

	switch method {
	case http.MethodPost:
		action = "create"
	case http.MethodPut, http.MethodPatch:
		action = "update"
	case http.MethodDelete:
		action = "delete"
	default:
		action = strings.ToLower(method)
	}
	// action routes like /pages/:id/versions/:versionId/restore
	if i := strings.LastIndex(fullPath, "/"); i >= 0 && method == http.MethodPost {
		if last := fullPath[i+1:]; last != module && !strings.HasPrefix(last, ":") {
			action = last
		}
	}
	return module, action
}

func formatAuditMessage(email, method, path string, status int) string {
	var b strings.Builder
	if email != "" {
		b.WriteString(email)
		b.WriteString(" ")
	}
	b.WriteString(method)
	b.WriteString(" ")
	b.WriteString(path)
	if status >= 200 && status < 300 {
		b.WriteString(" ok")
	} else {
		b.WriteString(" failed")
	}
	return b.String()
}

// maskSensitiveFields replaces secret values in a JSON body. Bodies that are
// not JSON objects are dropped entirely.
func maskSensitiveFields(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "[unparsed body omitted]"
	}
	maskMap(payload)
	out, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(out)
}

func maskMap(m map[string]interface{}) {
	for k, v := range m {
		key := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(k))
		if sensitiveKeys[key] {
			m[k] = "***"
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			maskMap(nested)
		}
	}
}
