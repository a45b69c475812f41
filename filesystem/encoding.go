package filesystem

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Encoding is the result of detecting a text file's character set.
type Encoding struct {
	Charset    string
	Language   string
	Confidence int // 0-100
}

// chardet names that neither the WHATWG nor the IANA index knows.
var charsetAliases = map[string]string{
	"gb-18030": "gb18030",
}

// DetectEncoding guesses the character set of the file at path.
func DetectEncoding(path string) (Encoding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Encoding{}, fmt.Errorf("read %s: %w", path, err)
	}
	return detectEncoding(data)
}

func detectEncoding(data []byte) (Encoding, error) {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return Encoding{}, fmt.Errorf("%w: %v", ErrUnsupportedEncoding, err)
	}
	return Encoding{
		Charset:    result.Charset,
		Language:   result.Language,
		Confidence: result.Confidence,
	}, nil
}

// ContentsAsUTF8 returns the contents of the text file at path converted to
// UTF-8. Content that is already valid UTF-8 is returned unchanged; anything
// else is decoded from its detected charset with invalid sequences replaced
// by U+FFFD. Binary files fail with ErrBinaryContent.
func (o *Ops) ContentsAsUTF8(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	out, charset, err := toUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	o.logger().Debug("decoded to utf-8", zap.String("path", path), zap.String("charset", charset))
	return out, nil
}

// ConvertToUTF8 rewrites the text file at path as UTF-8 when it is not UTF-8
// already, keeping its permissions. It reports whether the file changed.
func (o *Ops) ConvertToUTF8(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	out, charset, err := toUTF8(data)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if charset == "UTF-8" {
		return false, nil
	}

	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}

	o.logger().Info("converted to utf-8", zap.String("path", path), zap.String("from", charset))
	return true, nil
}

// toUTF8 converts text data to UTF-8 and returns the charset it came from.
func toUTF8(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return data, "UTF-8", nil
	}
	if !isText(mimetype.Detect(data)) {
		return nil, "", ErrBinaryContent
	}
	if utf8.Valid(data) {
		return data, "UTF-8", nil
	}

	detected, err := detectEncoding(data)
	if err != nil {
		return nil, "", err
	}
	enc, err := lookupEncoding(detected.Charset)
	if err != nil {
		return nil, "", err
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", detected.Charset, err)
	}
	return bytes.ToValidUTF8(out, []byte("\uFFFD")), detected.Charset, nil
}

func lookupEncoding(charset string) (encoding.Encoding, error) {
	name := strings.ToLower(charset)
	if alias, ok := charsetAliases[name]; ok {
		name = alias
	}

	switch name {
	case "utf-32be":
		return utf32.UTF32(utf32.BigEndian, utf32.UseBOM), nil
	case "utf-32le":
		return utf32.UTF32(utf32.LittleEndian, utf32.UseBOM), nil
	}

	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, charset)
}
