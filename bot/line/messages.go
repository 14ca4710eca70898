package line

import (
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"LineBridge/entity"
)

// BuildMessage turns a service-call message into its LINE SDK form.
func BuildMessage(m entity.Message) (messaging_api.MessageInterface, error) {
	switch m.Type {
	case entity.MessageText:
		return &messaging_api.TextMessage{Text: m.Text}, nil
	case entity.MessageImage:
		return &messaging_api.ImageMessage{
			OriginalContentUrl: m.OriginalContentUrl,
			PreviewImageUrl:    m.PreviewImageUrl,
		}, nil
	case entity.MessageSticker:
		return &messaging_api.StickerMessage{
			PackageId: m.PackageId,
			StickerId: m.StickerId,
		}, nil
	case entity.MessageLocation:
		return &messaging_api.LocationMessage{
			Title:     m.Title,
			Address:   m.Address,
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
		}, nil
	case entity.MessageAudio:
		return &messaging_api.AudioMessage{
			OriginalContentUrl: m.OriginalContentUrl,
			Duration:           m.Duration,
		}, nil
	case entity.MessageFlex:
		contents, err := messaging_api.UnmarshalFlexContainer(m.Contents)
		if err != nil {
			return nil, fmt.Errorf("%w: flex contents: %v", entity.ErrUnsupportedMessage, err)
		}
		return &messaging_api.FlexMessage{
			AltText:  m.AltText,
			Contents: contents,
		}, nil
	case entity.MessageTemplate:
		if m.Template == nil {
			return nil, fmt.Errorf("%w: template is missing", entity.ErrUnsupportedMessage)
		}
		template, err := BuildTemplate(*m.Template)
		if err != nil {
			return nil, err
		}
		return &messaging_api.TemplateMessage{
			AltText:  m.AltText,
			Template: template,
		}, nil
	}
	return nil, fmt.Errorf("%w: type '%s'", entity.ErrUnsupportedMessage, m.Type)
}

func BuildTemplate(t entity.Template) (messaging_api.TemplateInterface, error) {
	switch t.Type {
	case entity.TemplateButtons:
		return &messaging_api.ButtonsTemplate{
			Title:             t.Title,
			Text:              t.Text,
			ThumbnailImageUrl: t.ThumbnailImageUrl,
			Actions:           ToActions(t.Actions),
		}, nil
	case entity.TemplateConfirm:
		return &messaging_api.ConfirmTemplate{
			Text:    t.Text,
			Actions: ToActions(t.Actions),
		}, nil
	}
	return nil, fmt.Errorf("%w: template type '%s'", entity.ErrUnsupportedMessage, t.Type)
}

func ButtonsMessage(text, altText string, buttons []entity.Button) messaging_api.MessageInterface {
	return &messaging_api.TemplateMessage{
		AltText: altText,
		Template: &messaging_api.ButtonsTemplate{
			Text:    text,
			Actions: ToActions(buttons),
		},
	}
}

func ConfirmMessage(text, altText string, buttons []entity.Button) messaging_api.MessageInterface {
	return &messaging_api.TemplateMessage{
		AltText: altText,
		Template: &messaging_api.ConfirmTemplate{
			Text:    text,
			Actions: ToActions(buttons),
		},
	}
}

// ToActions maps buttons to template actions: data → postback, uri → link, otherwise a message action.
func ToActions(buttons []entity.Button) []messaging_api.ActionInterface {
	actions := make([]messaging_api.ActionInterface, 0, len(buttons))
	for _, b := range buttons {
		label := b.DisplayLabel()
		switch {
		case b.Data != "":
			actions = append(actions, &messaging_api.PostbackAction{Label: label, Data: b.Data})
		case b.Uri != "":
			actions = append(actions, &messaging_api.UriAction{Label: label, Uri: b.Uri})
		default:
			actions = append(actions, &messaging_api.MessageAction{Label: label, Text: b.Text})
		}
	}
	return actions
}
