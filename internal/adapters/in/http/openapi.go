package http

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openAPISpec []byte

// GetSwagger parses and validates the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// requestValidator checks every request of an operation described in doc against its
// parameters and request body. Routes missing from doc pass through untouched.
func requestValidator(doc *openapi3.T) echo.MiddlewareFunc {
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := findRoute(doc, c)
			if route == nil {
				return next(c)
			}

			err := openapi3filter.ValidateRequest(c.Request().Context(), &openapi3filter.RequestValidationInput{
				Request:    c.Request(),
				PathParams: pathParams(c),
				Route:      route,
				Options:    options,
			})
			if err != nil {
				return c.JSON(http.StatusBadRequest, errorResponse{
					Code:    http.StatusBadRequest,
					Message: err.Error(),
				})
			}
			return next(c)
		}
	}
}

// findRoute maps the matched echo route onto its OpenAPI operation.
func findRoute(doc *openapi3.T, c echo.Context) *routers.Route {
	path := toOpenAPIPath(c.Path())
	item := doc.Paths.Find(path)
	if item == nil {
		return nil
	}
	method := c.Request().Method
	operation := item.GetOperation(method)
	if operation == nil {
		return nil
	}
	return &routers.Route{
		Spec:      doc,
		Path:      path,
		PathItem:  item,
		Method:    method,
		Operation: operation,
	}
}

// toOpenAPIPath turns "/orders/:id" into "/orders/{id}".
func toOpenAPIPath(echoPath string) string {
	segments := strings.Split(echoPath, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") {
			segments[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

func pathParams(c echo.Context) map[string]string {
	names := c.ParamNames()
	params := make(map[string]string, len(names))
	for i, name := range names {
		params[name] = c.ParamValues()[i]
	}
	return params
}

// swaggerDoc serves the embedded document to echo-swagger through the swag registry.
type swaggerDoc struct {
	doc *openapi3.T
}

func (s swaggerDoc) ReadDoc() string {
	data, err := json.Marshal(s.doc)
	if err != nil {
		return "{}"
	}
	return string(data)
}

var registerSwagger sync.Once

func registerSwaggerDoc(doc *openapi3.T) {
	registerSwagger.Do(func() {
		swag.Register(swag.Name, swaggerDoc{doc: doc})
	})
}
