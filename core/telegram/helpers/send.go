package helpers

import (
	tele "gopkg.in/telebot.v4"
)

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	if len(markup) > 0 && markup[0] != nil {
		return c.Send(text, markup[0])
	}
	return c.Send(text)
}

// EditOrSendText tries to edit the trigger message or sends a new one if edit fails.
func EditOrSendText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	if len(markup) > 0 && markup[0] != nil {
		return c.EditOrSend(text, markup[0])
	}
	return c.EditOrSend(text)
}

// SendDocument uploads a local file as a document to the current recipient.
func SendDocument(c tele.Context, path, fileName string) error {
	doc := &tele.Document{
		File:     tele.FromDisk(path),
		FileName: fileName,
	}
	return c.Send(doc)
}

// Respond answers the pending callback query, optionally with a toast text.
func Respond(c tele.Context, text ...string) error {
	if c.Callback() == nil {
		return nil
	}
	resp := &tele.CallbackResponse{}
	if len(text) > 0 {
		resp.Text = text[0]
	}
	return c.Respond(resp)
}
