package entity

import (
	"encoding/json"
	"net/http"

	"LineBridge/internal/lib/validate"
)

const (
	MessageText     = "text"
	MessageImage    = "image"
	MessageSticker  = "sticker"
	MessageLocation = "location"
	MessageAudio    = "audio"
	MessageFlex     = "flex"
	MessageTemplate = "template"

	TemplateButtons = "buttons"
	TemplateConfirm = "confirm"
)

// Message is an outbound message in the LINE JSON shape, as supplied by a hub service call.
type Message struct {
	Type               string          `json:"type" validate:"required,oneof=text image sticker location audio flex template"`
	Text               string          `json:"text,omitempty" validate:"required_if=Type text"`
	OriginalContentUrl string          `json:"originalContentUrl,omitempty" validate:"required_if=Type image,required_if=Type audio"`
	PreviewImageUrl    string          `json:"previewImageUrl,omitempty" validate:"required_if=Type image"`
	PackageId          string          `json:"packageId,omitempty" validate:"required_if=Type sticker"`
	StickerId          string          `json:"stickerId,omitempty" validate:"required_if=Type sticker"`
	Title              string          `json:"title,omitempty" validate:"required_if=Type location"`
	Address            string          `json:"address,omitempty" validate:"required_if=Type location"`
	Latitude           float64         `json:"latitude,omitempty"`
	Longitude          float64         `json:"longitude,omitempty"`
	Duration           int64           `json:"duration,omitempty" validate:"required_if=Type audio"`
	AltText            string          `json:"altText,omitempty" validate:"required_if=Type flex,required_if=Type template"`
	Contents           json.RawMessage `json:"contents,omitempty" validate:"required_if=Type flex"`
	Template           *Template       `json:"template,omitempty" validate:"required_if=Type template"`
}

type Template struct {
	Type              string   `json:"type" validate:"required,oneof=buttons confirm"`
	Text              string   `json:"text" validate:"required"`
	Title             string   `json:"title,omitempty"`
	ThumbnailImageUrl string   `json:"thumbnailImageUrl,omitempty"`
	Actions           []Button `json:"actions" validate:"required,min=1,dive"`
}

// Button becomes a postback action when Data is set, a URI action when Uri
// is set, and a message action otherwise. Label defaults to Text.
type Button struct {
	Text  string `json:"text,omitempty" validate:"required_without=Label"`
	Label string `json:"label,omitempty"`
	Data  string `json:"data,omitempty"`
	Uri   string `json:"uri,omitempty" validate:"omitempty,url"`
}

func (b Button) DisplayLabel() string {
	if b.Label != "" {
		return b.Label
	}
	return b.Text
}

type SendMessageRequest struct {
	To         string  `json:"to" validate:"required_without=ReplyToken"`
	ReplyToken string  `json:"reply_token"`
	Message    Message `json:"message" validate:"required"`
}

func (r *SendMessageRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

type ButtonMessageRequest struct {
	To         string   `json:"to" validate:"required_without=ReplyToken"`
	ReplyToken string   `json:"reply_token"`
	Text       string   `json:"text" validate:"required"`
	AltText    string   `json:"alt_text"`
	Buttons    []Button `json:"buttons" validate:"required,min=1,max=4,dive"`
}

func (r *ButtonMessageRequest) Bind(_ *http.Request) error {
	if r.AltText == "" {
		r.AltText = r.Text
	}
	return validate.Struct(r)
}

// ConfirmMessageRequest keeps the camel-cased altText key the confirm service has always accepted.
type ConfirmMessageRequest struct {
	To         string   `json:"to" validate:"required_without=ReplyToken"`
	ReplyToken string   `json:"reply_token"`
	Text       string   `json:"text" validate:"required"`
	AltText    string   `json:"altText"`
	Buttons    []Button `json:"buttons" validate:"required,len=2,dive"`
}

func (r *ConfirmMessageRequest) Bind(_ *http.Request) error {
	if r.AltText == "" {
		r.AltText = r.Text
	}
	return validate.Struct(r)
}
