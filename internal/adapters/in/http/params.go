package http

import (
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// pathParam binds a simple-style path parameter.
func pathParam(c echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &value,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	return value, err
}

// pathParams binds several path parameters, stopping at the first failure.
func pathParams(c echo.Context, names ...string) ([]string, error) {
	values := make([]string, len(names))
	for i, name := range names {
		v, err := pathParam(c, name)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
