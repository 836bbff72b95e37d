package puzzlepresenter

import (
	"encoding/base64"
	"strings"

	"github.com/park285/Cheese-NumberOrder-bot/pkg/puzzledto"
)

// Presenter delivers formatted messages and board images without coupling to the command layer.
type Presenter struct {
	sendMessage func(room, message string) error
	sendImage   func(room, imageBase64 string) error
}

func NewPresenter(sendMessage func(room, message string) error, sendImage func(room, imageBase64 string) error) *Presenter {
	return &Presenter{
		sendMessage: sendMessage,
		sendImage:   sendImage,
	}
}

// Board sends the text first and then the board image, if any.
func (p *Presenter) Board(room, message string, state *puzzledto.SessionState) error {
	if p == nil {
		return nil
	}
	if err := p.Text(room, message); err != nil {
		return err
	}
	if state != nil && len(state.BoardImage) > 0 && p.sendImage != nil {
		return p.sendImage(room, base64.StdEncoding.EncodeToString(state.BoardImage))
	}
	return nil
}

func (p *Presenter) Text(room, message string) error {
	if p == nil || p.sendMessage == nil || strings.TrimSpace(message) == "" {
		return nil
	}
	return p.sendMessage(room, message)
}
