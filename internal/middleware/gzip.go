package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"
)

// gzipResponseWriter сжимает тело ответа, если код ответа вообще допускает тело.
// Ответы 204 и 304 уходят как есть, без gzip заголовков
type gzipResponseWriter struct {
	http.ResponseWriter
	gzWriter    *gzip.Writer
	wroteHeader bool
	compress    bool
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if status != http.StatusNoContent && status != http.StatusNotModified && status >= 200 {
		w.compress = true
		w.Header().Set("Content-Encoding", "gzip")
		// Длина тела после сжатия заранее неизвестна
		w.Header().Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if !w.compress {
		return w.ResponseWriter.Write(b)
	}
	if err := w.initWriter(); err != nil {
		return 0, err
	}
	return w.gzWriter.Write(b)
}

func (w *gzipResponseWriter) initWriter() error {
	if w.gzWriter != nil {
		return nil
	}
	gzWriter, err := gzip.NewWriterLevel(w.ResponseWriter, gzip.BestSpeed)
	if err != nil {
		return err
	}
	w.gzWriter = gzWriter
	return nil
}

// Close завершает gzip поток. Если обработчик ничего не записал в тело,
// всё равно отдаем корректный пустой gzip поток
func (w *gzipResponseWriter) Close() error {
	if !w.compress {
		return nil
	}
	if err := w.initWriter(); err != nil {
		return err
	}
	return w.gzWriter.Close()
}

func GzipSupport(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Получили запрос, закодированный в gzip - подменяем Body,
		// чтобы обработчики читали тело запроса прозрачно
		if r.Header.Get("Content-Encoding") == "gzip" {
			rawBody := r.Body
			defer rawBody.Close()
			r.Header.Del("Content-Encoding")
			gzReader, err := gzip.NewReader(rawBody)
			if err != nil {
				// Тело не читается как gzip - обработчик получит пустое тело и сам ответит ошибкой
				hlog.FromRequest(r).Debug().Err(err).Msg("unable to decode gzip request body")
				r.Body = http.NoBody
			} else {
				r.Body = gzReader
				defer gzReader.Close()
			}
		}

		w.Header().Add("Vary", "Accept-Encoding")
		// Клиент не поддерживает gzip, отдаем ответ как есть
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gzw := &gzipResponseWriter{ResponseWriter: w}
		defer gzw.Close()
		next.ServeHTTP(gzw, r)
	})
}
