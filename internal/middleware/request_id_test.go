package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type RequestIDTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (s *RequestIDTestSuite) SetupTest() {
	s.echo = echo.New()
}

func TestRequestIDTestSuite(t *testing.T) {
	suite.Run(t, new(RequestIDTestSuite))
}

// run passes a request with the given X-Trace-ID header through RequestID and
// returns the trace ID seen by the handler and the response header value
func (s *RequestIDTestSuite) run(header string) (string, string) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(TraceIDHeader, header)
	}
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	var seen string
	handler := RequestID()(func(c echo.Context) error {
		seen = GetTraceID(c)
		return c.NoContent(http.StatusOK)
	})

	s.Require().NoError(handler(c))
	return seen, rec.Header().Get(TraceIDHeader)
}

func (s *RequestIDTestSuite) TestGeneratesUUID() {
	seen, header := s.run("")

	s.Regexp(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, seen)
	s.Equal(seen, header)
}

func (s *RequestIDTestSuite) TestReusesClientTraceID() {
	seen, header := s.run("existing-trace-id-12345")

	s.Equal("existing-trace-id-12345", seen)
	s.Equal("existing-trace-id-12345", header)
}

func (s *RequestIDTestSuite) TestReplacesUnusableTraceID() {
	for name, value := range map[string]string{
		"too long":   strings.Repeat("a", maxTraceIDLength+1),
		"whitespace": "trace id",
		"non ascii":  "trace-ü",
	} {
		s.Run(name, func() {
			seen, header := s.run(value)

			s.NotEqual(value, seen)
			s.Len(seen, 36)
			s.Equal(seen, header)
		})
	}
}

func (s *RequestIDTestSuite) TestGetTraceID_EmptyWhenNotSet() {
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	s.Empty(GetTraceID(c))
	s.Equal("unknown", traceIDOrUnknown(c))
}
