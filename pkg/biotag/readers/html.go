package readers

import (
	"bytes"
	"context"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

var blockTags = map[string]bool{
	"title": true, "p": true, "div": true, "br": true, "li": true, "dd": true, "dt": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"td": true, "th": true, "tr": true, "pre": true, "blockquote": true,
	"section": true, "article": true, "header": true, "footer": true,
	"caption": true, "figcaption": true,
}

var skippedTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// HTML reads an HTML document. Each block element becomes a passage whose
// kind is the tag name; passage original offsets point into the markup.
type HTML struct{}

func (HTML) Name() string                 { return "html" }
func (HTML) Contract() *pipeline.Contract { return readerContract() }

func (HTML) Read(ctx context.Context, env *pipeline.Env, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	c := env.Corpus
	z := html.NewTokenizer(bytes.NewReader(data))

	var (
		buf      strings.Builder
		bufStart = -1
		kind     = "text"
		skip     = 0
		offset   = 0
	)
	flush := func() {
		if bufStart >= 0 {
			appendPassage(c, buf.String(), kind, bufStart)
		}
		buf.Reset()
		bufStart = -1
	}

	for {
		tt := z.Next()
		pos := offset
		offset += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				flush()
				return nil
			}
			return z.Err()
		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := string(z.Text())
			if bufStart < 0 {
				if strings.TrimSpace(text) == "" {
					continue
				}
				bufStart = pos
			}
			buf.WriteString(text)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedTags[tag] {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if blockTags[tag] {
				flush()
				kind = tag
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedTags[tag] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if blockTags[tag] {
				flush()
				kind = "text"
			}
		}
	}
}
