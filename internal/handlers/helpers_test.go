package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newJSONContext builds a request context carrying body as JSON. A nil body
// sends no payload; a string is sent verbatim.
func newJSONContext(e *echo.Echo, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var payload []byte
	switch v := body.(type) {
	case nil:
	case string:
		payload = []byte(v)
	default:
		payload, _ = json.Marshal(v)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(TraceIDContextKey, "trace-test")
	return c, rec
}

func withUser(c echo.Context, userID uuid.UUID) echo.Context {
	c.Set("user_id", userID)
	return c
}

func decodeError(rec *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return resp
}

// decodeData unmarshals the data member of a success envelope into out
func decodeData(rec *httptest.ResponseRecorder, out interface{}) (SuccessResponse, error) {
	var envelope struct {
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
		Meta    interface{}     `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		return SuccessResponse{}, err
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return SuccessResponse{}, err
		}
	}
	return SuccessResponse{Message: envelope.Message, Meta: envelope.Meta}, nil
}
