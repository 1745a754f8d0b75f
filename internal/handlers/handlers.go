package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/sergeii/rss-json-relay/internal/app"
	"github.com/sergeii/rss-json-relay/pkg/xml2json"
)

type Handler struct {
	App *app.App
}

// respond отдает json ответ с указанным кодом.
// CORS заголовки проставляются всегда, в том числе в ответах с ошибкой
func (handler Handler) respond(w http.ResponseWriter, status int, body []byte) {
	handler.App.CORS.Apply(w.Header())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body) // nolint:errcheck
}

func (handler Handler) respondError(w http.ResponseWriter, status int, message string) {
	body, _ := json.Marshal(&APIError{Error: status, Message: message})
	handler.respond(w, status, body)
}

// parseFeedURL пытается получить адрес ленты из json тела запроса.
// В случае любой проблемы с телом возвращает пустую строку.
// Ключ "url" сравнивается с учетом регистра: "URL" и "Url" адресом не считаются.
// Тело длиннее maxSize байт не вычитывается до конца и считается некорректным.
// Тело вычитывается целиком, после чего подменяется копией,
// так что последующие обработчики могут прочитать его повторно
func parseFeedURL(w http.ResponseWriter, r *http.Request, maxSize int64) string {
	if r.Body == nil {
		return ""
	}
	reader := r.Body
	if maxSize > 0 {
		reader = http.MaxBytesReader(w, r.Body, maxSize)
	}
	body, err := io.ReadAll(reader)
	reader.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	// encoding/json сопоставляет поля структуры без учета регистра, поэтому ключ достаем вручную
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	raw, ok := fields[keyURL]
	if !ok {
		return ""
	}
	var relayReq APIRelayRequest
	if err := json.Unmarshal(raw, &relayReq.URL); err != nil {
		return ""
	}
	return relayReq.URL
}

// relay скачивает ленту и конвертирует её в json
func (handler Handler) relay(ctx context.Context, feedURL string) ([]byte, error) {
	data, err := handler.App.Fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch feed: %w", err)
	}
	// Определение типа ленты требует отдельного прохода по документу, делаем его только для debug логов
	if e := zerolog.Ctx(ctx).Debug(); e.Enabled() {
		e.Str("feed_type", xml2json.FeedTypeName(xml2json.DetectFeedType(data))).
			Int("fetched", len(data)).
			Msg("fetched feed")
	}
	converted, err := handler.App.Converter.Convert(data)
	if err != nil {
		return nil, fmt.Errorf("unable to convert feed: %w", err)
	}
	// В лентах полно html разметки, экранировать её в \u003c нет смысла
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(converted); err != nil {
		return nil, fmt.Errorf("unable to encode feed: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// RelayFeed принимает в теле запроса json с адресом rss/atom ленты в ключе "url",
// скачивает ленту и возвращает её содержимое, сконвертированное из xml в json.
// В случае успеха возвращает код 200 и json представление ленты
// В случае отсутствия адреса в теле запроса вернет ошибку 400
// Любая проблема со скачиванием или разбором ленты приводит к ошибке 500
func (handler Handler) RelayFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		handler.MethodNotAllowed(w, r)
		return
	}

	feedURL := parseFeedURL(w, r, handler.App.Config.RequestMaxBodySize)
	if feedURL == "" {
		handler.respondError(w, http.StatusBadRequest, MessageBadRequest)
		return
	}

	log := hlog.FromRequest(r).With().Str("url", feedURL).Logger()
	result, err := handler.relay(r.Context(), feedURL)
	if err != nil {
		// Причину ошибки клиенту не раскрываем, но пишем её в лог
		log.Error().Err(err).Msg("failed to relay feed")
		handler.respondError(w, http.StatusInternalServerError, MessageUpstreamFailure)
		return
	}
	log.Debug().Int("size", len(result)).Msg("relayed feed")
	handler.respond(w, http.StatusOK, result)
}

// MethodNotAllowed отвечает ошибкой 405 на все методы, кроме POST и OPTIONS
func (handler Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	handler.respondError(w, http.StatusMethodNotAllowed, MessageMethodNotAllowed)
}
