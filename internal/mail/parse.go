// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package mail

import (
	"io"
	"mime"
	"mime/multipart"
	netmail "net/mail"
	"strings"

	"github.com/samber/oops"
)

// ParsedMessage is the content extracted from a raw RFC 5322 message.
type ParsedMessage struct {
	Subject string
	Body    string
	IsHTML  bool
}

// ParseMessage extracts the subject and body from a raw message. For
// multipart messages the text/html part is preferred over text/plain,
// matching what the composer produces. A missing subject or unreadable body
// is a client error (ErrMalformed).
func ParseMessage(raw string) (*ParsedMessage, error) {
	msg, err := netmail.ReadMessage(strings.NewReader(raw))
	if err != nil {
		return nil, oops.Code("EMAIL_PARSE_FAILED").Wrap(ErrMalformed)
	}

	subject := msg.Header.Get("Subject")
	if subject == "" {
		return nil, oops.Code("EMAIL_NO_SUBJECT").Wrap(ErrMalformed)
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		// No (or unparseable) Content-Type: treat the body as plain text.
		body, readErr := readBody(msg.Body)
		if readErr != nil {
			return nil, readErr
		}
		return &ParsedMessage{Subject: subject, Body: body}, nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return parseMultipart(subject, msg.Body, params["boundary"])
	}

	body, err := readBody(msg.Body)
	if err != nil {
		return nil, err
	}
	return &ParsedMessage{
		Subject: subject,
		Body:    body,
		IsHTML:  mediaType == "text/html",
	}, nil
}

// parseMultipart walks the parts and keeps the best candidate body:
// text/html wins over text/plain, first occurrence of each wins.
func parseMultipart(subject string, r io.Reader, boundary string) (*ParsedMessage, error) {
	if boundary == "" {
		return nil, oops.Code("EMAIL_NO_BOUNDARY").Wrap(ErrMalformed)
	}

	var plain, html string
	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, oops.Code("EMAIL_PART_READ_FAILED").Wrap(ErrMalformed)
		}

		partType, _, typeErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if typeErr != nil {
			partType = "text/plain"
		}

		switch partType {
		case "text/html":
			if html == "" {
				body, readErr := readBody(part)
				if readErr != nil {
					return nil, readErr
				}
				html = body
			}
		case "text/plain":
			if plain == "" {
				body, readErr := readBody(part)
				if readErr != nil {
					return nil, readErr
				}
				plain = body
			}
		}
	}

	if html != "" {
		return &ParsedMessage{Subject: subject, Body: html, IsHTML: true}, nil
	}
	if plain != "" {
		return &ParsedMessage{Subject: subject, Body: plain}, nil
	}
	return nil, oops.Code("EMAIL_NO_BODY").Wrap(ErrMalformed)
}

func readBody(r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", oops.Code("EMAIL_BODY_READ_FAILED").Wrap(ErrMalformed)
	}
	return string(body), nil
}
