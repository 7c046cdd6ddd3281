package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

// The swagger UI renders whatever swag.ReadDoc returns, so the template has
// to stay in sync with the routes the router actually registers.
func TestGeneratedSpecCoversAllRoutes(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var spec struct {
		Paths       map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))

	routes := []string{
		"/announcement",
		"/auth/login-code",
		"/auth/verify",
		"/conferences",
		"/conferences/query",
		"/conferences/{conferenceKey}",
		"/conferences/{conferenceKey}/registration",
		"/conferences/{conferenceKey}/sessions",
		"/featured-speaker",
		"/profile",
		"/profile/conferences/attending",
		"/profile/conferences/created",
		"/profile/wishlist",
		"/profile/wishlist/{sessionKey}",
		"/sessions",
		"/speakers",
		"/tasks/refresh-announcement",
	}
	for _, route := range routes {
		assert.Contains(t, spec.Paths, route)
	}
	assert.Len(t, spec.Paths, len(routes), "no stale paths in the spec")
	assert.Contains(t, spec.Definitions, "helpers.APIResponse")
	assert.Contains(t, spec.Definitions, "domain.Conference")
}
