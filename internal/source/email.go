package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
)

// emailText reads the message body (HTML tables preferred, since invoices
// sent inline are usually tables) followed by the text of PDF, image and
// plain-text attachments. Attachments that fail to read are skipped.
func (e *Extractor) emailText(ctx context.Context, raw []byte) (string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("read email: %w", err)
	}

	parts := []string{}
	body := env.Text
	if env.HTML != "" && (body == "" || strings.Contains(strings.ToLower(env.HTML), "<table")) {
		if text, err := HTMLText(env.HTML); err == nil {
			body = text
		}
	}
	if strings.TrimSpace(body) != "" {
		parts = append(parts, body)
	}

	for _, att := range env.Attachments {
		kind, err := DetectKind(att.FileName, att.ContentType)
		if err != nil || kind == KindEmail {
			continue
		}
		var text string
		switch kind {
		case KindPDF:
			text, err = PDFText(att.Content)
		case KindImage:
			text, err = e.ocr.Recognize(ctx, att.Content)
		default:
			text = string(att.Content)
		}
		if err != nil {
			continue
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n"), nil
}

// HTMLText flattens HTML to lines: one line per table row or block element,
// cells separated by a space.
func HTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script,style,head").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("td,th").Each(func(_ int, cell *goquery.Selection) {
		cell.AppendHtml(" ")
	})
	doc.Find("tr,p,div,li,h1,h2,h3,h4,h5,h6").Each(func(_ int, block *goquery.Selection) {
		block.AppendHtml("\n")
	})
	return doc.Text(), nil
}
