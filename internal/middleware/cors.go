package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CORSPolicy описывает фиксированный набор CORS заголовков,
// которые сервис отдает в ответ на любой запрос
type CORSPolicy struct {
	AllowOrigin  string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       time.Duration
}

func NewCORSPolicy(origin string, methods, headers []string, maxAge time.Duration) *CORSPolicy {
	return &CORSPolicy{
		AllowOrigin:  origin,
		AllowMethods: methods,
		AllowHeaders: headers,
		MaxAge:       maxAge,
	}
}

// Apply добавляет CORS заголовки политики к заголовкам ответа
func (p *CORSPolicy) Apply(h http.Header) {
	h.Set("Access-Control-Allow-Origin", p.AllowOrigin)
	h.Set("Access-Control-Allow-Methods", strings.Join(p.AllowMethods, ", "))
	if len(p.AllowHeaders) > 0 {
		h.Set("Access-Control-Allow-Headers", strings.Join(p.AllowHeaders, ", "))
	}
	if p.MaxAge > 0 {
		h.Set("Access-Control-Max-Age", strconv.Itoa(int(p.MaxAge.Seconds())))
	}
}

// HandlePreflight отвечает на OPTIONS запрос кодом 204 без тела, только с CORS заголовками
func (p *CORSPolicy) HandlePreflight(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	p.Apply(h)
	// Браузер перечислил заголовки, которые собирается прислать - разрешаем их
	if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
		h.Set("Access-Control-Allow-Headers", requested)
	}
	w.WriteHeader(http.StatusNoContent)
}

// WithCORS возвращает мидлварь, которая проставляет CORS заголовки в каждый ответ
// и самостоятельно обрабатывает preflight запросы, не передавая их дальше
func WithCORS(policy *CORSPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				policy.HandlePreflight(w, r)
				return
			}
			policy.Apply(w.Header())
			next.ServeHTTP(w, r)
		})
	}
}
