package errorx

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/i18n"
)

// Respond renders err as a JSON error response with a localized message.
// Unknown error values are mapped to an internal error so store internals
// never leak to callers.
func Respond(c *gin.Context, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = FromStore(err)
	}

	lang := i18n.LangFromHeader(c.GetHeader("X-Lang"), c.GetHeader("Accept-Language"))
	apiErr.Message = i18n.Translate(lang, apiErr.MessageID, apiErr.Data)

	c.AbortWithStatusJSON(apiErr.HTTPStatus, gin.H{"error": apiErr})
}
