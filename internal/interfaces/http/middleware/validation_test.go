package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/accounting/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentBody struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Method string          `json:"method" binding:"required,oneof=CASH BANK_TRANSFER"`
	Date   string          `json:"date" binding:"required,datetime=2006-01-02"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/pay", func(c *gin.Context) {
		var body paymentBody
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postJSON(router http.Handler, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	t.Run("lists rejected fields by json name", func(t *testing.T) {
		w, resp := postJSON(router, `{"amount": "-5", "method": "CHEQUE", "date": "01/02/2024"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		fields := map[string]string{}
		for _, f := range resp.Error.Fields {
			fields[f.Field] = f.Message
		}
		assert.Equal(t, "Must be greater than 0", fields["amount"])
		assert.Equal(t, "Must be one of: CASH BANK_TRANSFER", fields["method"])
		assert.Contains(t, fields, "date")
	})

	t.Run("malformed json", func(t *testing.T) {
		w, resp := postJSON(router, `{"amount":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})

	t.Run("valid body", func(t *testing.T) {
		w, _ := postJSON(router, `{"amount": "12.50", "method": "CASH", "date": "2024-02-01"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
