package middleware

import (
	"net/http"
	"net/http/httptest"
)

// RequestWithMiddleware прогоняет запрос через обработчик, обернутый в цепочку мидлварей.
// Первая мидлварь в списке оказывается внешней
func RequestWithMiddleware(
	handlerFunc func(http.ResponseWriter, *http.Request),
	req *http.Request,
	middlewares ...func(handler http.Handler) http.Handler,
) *httptest.ResponseRecorder {
	var handler http.Handler = http.HandlerFunc(handlerFunc)
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}
