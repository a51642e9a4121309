// Package content parses the media markup embedded in note text.
//
// Notes mix plain text with three inline media forms:
//
//	@audio(https://...)   audio clip
//	@video(https://...)   video clip
//	![alt](https://...)   image
//
// Parse splits a note body into ordered blocks so clients can render text
// and players interleaved exactly as written.
package content

import (
	"regexp"
	"strings"
)

// Kind discriminates block types.
type Kind string

const (
	KindText  Kind = "text"
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// Block is one segment of a note body.
type Block struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text,omitempty"` // KindText only
	URL  string `json:"url,omitempty"`  // media kinds
	Alt  string `json:"alt,omitempty"`  // KindImage only
}

var markupRx = regexp.MustCompile(`@audio\(([^)\s]+)\)|@video\(([^)\s]+)\)|!\[([^\]]*)\]\(([^)\s]+)\)`)

// Parse splits body into blocks in document order. Text between media tokens
// is kept verbatim except that segments which are only whitespace are
// dropped. An empty body yields no blocks.
func Parse(body string) []Block {
	var out []Block
	appendText := func(s string) {
		if strings.TrimSpace(s) == "" {
			return
		}
		out = append(out, Block{Kind: KindText, Text: s})
	}

	last := 0
	for _, m := range markupRx.FindAllStringSubmatchIndex(body, -1) {
		appendText(body[last:m[0]])
		switch {
		case m[2] >= 0: // audio URL group
			out = append(out, Block{Kind: KindAudio, URL: body[m[2]:m[3]]})
		case m[4] >= 0: // video URL group
			out = append(out, Block{Kind: KindVideo, URL: body[m[4]:m[5]]})
		default: // image alt + URL groups
			out = append(out, Block{Kind: KindImage, Alt: body[m[6]:m[7]], URL: body[m[8]:m[9]]})
		}
		last = m[1]
	}
	appendText(body[last:])
	return out
}

// MediaURLs returns the URLs of every media block in body, in order.
func MediaURLs(body string) []string {
	var out []string
	for _, b := range Parse(body) {
		if b.Kind != KindText {
			out = append(out, b.URL)
		}
	}
	return out
}
