package http

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

type swaggerSpec struct {
	doc string
}

func (s swaggerSpec) ReadDoc() string {
	return s.doc
}

var registerSwaggerOnce sync.Once

// registerSwagger publishes doc to the swagger UI. swag keeps a process wide
// registry that panics on duplicates, so only the first call registers.
func registerSwagger(e *echo.Echo, doc *openapi3.T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}

	registerSwaggerOnce.Do(func() {
		swag.Register(swag.Name, swaggerSpec{doc: string(raw)})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return nil
}
