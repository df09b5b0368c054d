package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFixtureIDIsStable(t *testing.T) {
	assert.Equal(t, FixtureID("branch-hq"), FixtureID("branch-hq"))
	assert.NotEqual(t, FixtureID("branch-hq"), FixtureID("branch-north"))
}

func TestDateFormats(t *testing.T) {
	at := time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03", Period(at))
	assert.Equal(t, "2026-03-31", Day(at))
	assert.Equal(t, "1500.5", Money("1500.50").String())
}

func TestClient(t *testing.T) {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		body["auth"] = c.GetHeader("Authorization")
		c.JSON(http.StatusOK, gin.H{"success": true, "data": body})
	})
	engine.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": gin.H{"code": "ERR_FORBIDDEN", "message": "no"}})
	})

	client := NewClient(engine).WithToken("tok")
	resp := client.Do(t, http.MethodPost, "/echo", map[string]string{"name": "HQ"}).RequireStatus(t, http.StatusOK)
	data := Decode[map[string]string](t, resp)
	assert.Equal(t, "HQ", data["name"])
	assert.Equal(t, "Bearer tok", data["auth"])

	client.Do(t, http.MethodGet, "/fail", nil).AssertError(t, http.StatusForbidden, "ERR_FORBIDDEN")
}
