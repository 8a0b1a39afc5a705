package util

import (
	"encoding/xml"
	"io"

	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html/charset"
)

// ParseFeedXML parses RSS documents and single <item> fragments. The decoder is
// not strict, so prefixed elements such as dc:creator survive being cut out of
// the <rss> element that declares their namespace. HTML entities are accepted.
func ParseFeedXML(r io.Reader) (*xmlquery.Node, error) {
	return xmlquery.ParseWithOptions(r, xmlquery.ParserOptions{
		Decoder: &xmlquery.DecoderOptions{
			Strict:        false,
			Entity:        xml.HTMLEntity,
			CharsetReader: charset.NewReaderLabel,
		},
	})
}
