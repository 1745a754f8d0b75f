package handlers

type APIRelayRequest struct {
	URL string `json:"url"` // Адрес rss/atom ленты, которую нужно сконвертировать в json
}

// keyURL - ключ тела запроса с адресом ленты, совпадает с json тегом APIRelayRequest.URL
const keyURL = "url"

type APIError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

const (
	MessageMethodNotAllowed = "Method Not Allowed"
	MessageBadRequest       = "Bad Request, please set the `url` in your body data."
	MessageUpstreamFailure  = "There was a problem with your request, please try again later."
)
