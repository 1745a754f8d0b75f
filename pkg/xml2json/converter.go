package xml2json

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"
)

const (
	AttrPrefix = "-"
	TextKey    = "#text"
)

var ErrEmptyDocument = errors.New("document contains no xml elements")
var ErrNotAFeed = errors.New("document is neither rss nor atom feed")

type Option func(*Converter)

// WithCast включает приведение текстовых значений к числам и булевым значениям
func WithCast(cast bool) Option {
	return func(c *Converter) {
		c.cast = cast
	}
}

// WithFeedDetection заставляет конвертер отклонять документы,
// которые не удается распознать как rss или atom ленту
func WithFeedDetection(require bool) Option {
	return func(c *Converter) {
		c.requireFeed = require
	}
}

// Converter превращает xml документ в дерево map/slice, пригодное для серилизации в json.
// Элементы становятся ключами, повторяющиеся соседние элементы - массивами,
// атрибуты получают префикс "-", а текст элемента с атрибутами или детьми хранится под ключом "#text".
// Имена элементов и атрибутов сохраняются вместе с префиксом пространства имен: atom:link, dc:creator
type Converter struct {
	cast        bool
	requireFeed bool
}

func New(opts ...Option) *Converter {
	c := &Converter{cast: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// element - разбираемый в данный момент элемент документа
type element struct {
	name     string
	attrs    []xml.Attr
	children map[string]interface{}
	text     strings.Builder
}

func (c *Converter) Convert(data []byte) (map[string]interface{}, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}
	if c.requireFeed {
		if feedType := DetectFeedType(data); feedType != gofeed.FeedTypeRSS && feedType != gofeed.FeedTypeAtom {
			return nil, ErrNotAFeed
		}
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	// Ленты нередко отдаются в windows-1251, koi8-r и т.п.
	decoder.CharsetReader = charset.NewReaderLabel
	// &nbsp; и прочие html сущности встречаются в лентах сплошь и рядом
	decoder.Entity = xml.HTMLEntity

	var result map[string]interface{}
	var stack []*element
	for {
		// RawToken не подменяет префиксы пространств имен на их URI,
		// но и не проверяет парность тегов - это делаем сами
		tok, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && result != nil {
				return nil, fmt.Errorf("unable to parse xml: second root element <%s>", qualifiedName(t.Name))
			}
			stack = append(stack, &element{
				name:  qualifiedName(t.Name),
				attrs: t.Attr,
			})
		case xml.EndElement:
			name := qualifiedName(t.Name)
			if len(stack) == 0 {
				return nil, fmt.Errorf("unable to parse xml: unexpected end element </%s>", name)
			}
			current := stack[len(stack)-1]
			if current.name != name {
				return nil, fmt.Errorf("unable to parse xml: element <%s> closed by </%s>", current.name, name)
			}
			stack = stack[:len(stack)-1]
			value := c.elementValue(current)
			if len(stack) == 0 {
				result = map[string]interface{}{current.name: value}
			} else {
				stack[len(stack)-1].addChild(current.name, value)
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("unable to parse xml: element <%s> is not closed", stack[len(stack)-1].name)
	}
	if result == nil {
		return nil, ErrEmptyDocument
	}
	return result, nil
}

func (e *element) addChild(name string, value interface{}) {
	if e.children == nil {
		e.children = make(map[string]interface{})
	}
	existing, ok := e.children[name]
	if !ok {
		e.children[name] = value
		return
	}
	if list, isList := existing.([]interface{}); isList {
		e.children[name] = append(list, value)
	} else {
		e.children[name] = []interface{}{existing, value}
	}
}

// elementValue возвращает строку для элемента, состоящего только из текста,
// и map для элемента с атрибутами или дочерними элементами
func (c *Converter) elementValue(e *element) interface{} {
	text := strings.TrimSpace(e.text.String())
	if len(e.attrs) == 0 && len(e.children) == 0 {
		return c.castValue(text)
	}
	node := make(map[string]interface{}, len(e.children)+len(e.attrs)+1)
	for name, child := range e.children {
		node[name] = child
	}
	for _, attr := range e.attrs {
		node[AttrPrefix+qualifiedName(attr.Name)] = c.castValue(attr.Value)
	}
	if text != "" {
		node[TextKey] = c.castValue(text)
	}
	return node
}

func (c *Converter) castValue(s string) interface{} {
	if !c.cast {
		return s
	}
	return CastValue(s)
}

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// DetectFeedType возвращает тип ленты по корневому элементу документа
func DetectFeedType(data []byte) gofeed.FeedType {
	return gofeed.DetectFeedType(bytes.NewReader(data))
}

// FeedTypeName возвращает человекочитаемое название типа ленты для логов
func FeedTypeName(feedType gofeed.FeedType) string {
	switch feedType {
	case gofeed.FeedTypeRSS:
		return "rss"
	case gofeed.FeedTypeAtom:
		return "atom"
	case gofeed.FeedTypeJSON:
		return "json"
	}
	return "unknown"
}
