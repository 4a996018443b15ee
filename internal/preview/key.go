package preview

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/conneroisu/uistudio/internal/content"
)

// CacheKey derives the renderer key for p. It changes whenever the active
// payload's content changes or the preview is refreshed, and is otherwise
// stable, so the renderer remounts only when it has to.
func CacheKey(p content.Payload, refresh int) string {
	h := sha256.New()
	if p != nil {
		h.Write([]byte(p.Kind()))
		h.Write([]byte{0})
		h.Write([]byte(content.Body(p)))
		if rs, ok := p.(content.RemoteScript); ok {
			h.Write([]byte{0})
			h.Write([]byte(rs.Framework))
		}
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8]) + "-" + strconv.Itoa(refresh)
}
