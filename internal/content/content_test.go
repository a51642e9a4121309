package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_PlainText(t *testing.T) {
	blocks := Parse("taberu means to eat")
	assert.Equal(t, []Block{{Kind: KindText, Text: "taberu means to eat"}}, blocks)
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("   \n  "))
}

func TestParse_MixedMarkup(t *testing.T) {
	body := "食べる to eat\n@audio(https://cdn/x.mp3)\nexample: ![bento](https://cdn/bento.jpg)\n@video(https://cdn/clip.mp4)"
	blocks := Parse(body)
	assert.Equal(t, []Block{
		{Kind: KindText, Text: "食べる to eat\n"},
		{Kind: KindAudio, URL: "https://cdn/x.mp3"},
		{Kind: KindText, Text: "\nexample: "},
		{Kind: KindImage, Alt: "bento", URL: "https://cdn/bento.jpg"},
		{Kind: KindVideo, URL: "https://cdn/clip.mp4"},
	}, blocks)
}

func TestParse_AdjacentMedia(t *testing.T) {
	blocks := Parse("@audio(https://a/1.mp3)@audio(https://a/2.mp3)")
	assert.Equal(t, []Block{
		{Kind: KindAudio, URL: "https://a/1.mp3"},
		{Kind: KindAudio, URL: "https://a/2.mp3"},
	}, blocks)
}

func TestParse_MalformedMarkupStaysText(t *testing.T) {
	// No closing paren: treated as plain text, not a media block.
	blocks := Parse("@audio(https://a/1.mp3 and more")
	assert.Len(t, blocks, 1)
	assert.Equal(t, KindText, blocks[0].Kind)
}

func TestParse_EmptyImageAlt(t *testing.T) {
	blocks := Parse("![](https://cdn/i.png)")
	assert.Equal(t, []Block{{Kind: KindImage, URL: "https://cdn/i.png"}}, blocks)
}

func TestMediaURLs(t *testing.T) {
	body := "x @audio(https://a/1.mp3) y ![i](https://a/2.png)"
	assert.Equal(t, []string{"https://a/1.mp3", "https://a/2.png"}, MediaURLs(body))
}
