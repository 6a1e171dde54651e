package services_test

import (
	"github.com/bookit/bookit-web/pkg/bookit"
	"github.com/bookit/bookit-web/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// apiResponse builds an answered BookIt API response
func apiResponse(status int, body string) *bookit.Response {
	return &bookit.Response{
		StatusCode: status,
		Body:       []byte(body),
		Payload:    bookit.DecodePayload([]byte(body)),
	}
}
