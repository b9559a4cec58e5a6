package workflow

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

var (
	dataURIHeader = regexp.MustCompile(`^data:(image/[A-Za-z0-9.+-]+);base64,`)
	base64Body    = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)
)

const fallbackMediaType = "image/jpeg"

// ResolveImage turns a file path or base64 payload (optionally carrying a
// data URI header) into image bytes. A path that names an existing regular
// file always wins over base64 interpretation.
func ResolveImage(input string) (llm.Image, error) {
	if input == "" {
		return llm.Image{}, fmt.Errorf("%w: empty input", ErrInvalidImageInput)
	}

	if info, err := os.Stat(input); err == nil && info.Mode().IsRegular() {
		data, err := os.ReadFile(input)
		if err != nil {
			return llm.Image{}, fmt.Errorf("%w: %w", ErrInvalidImageInput, err)
		}
		return llm.Image{Data: data, MediaType: mediaType(data, "")}, nil
	}

	return decodeBase64(input)
}

// DecodeImage accepts only an inline base64 payload, optionally carrying a
// data URI header, and never touches the filesystem. The decoded bytes must
// sniff as an image.
func DecodeImage(input string) (llm.Image, error) {
	if input == "" {
		return llm.Image{}, fmt.Errorf("%w: empty input", ErrInvalidImageInput)
	}

	img, err := decodeBase64(input)
	if err != nil {
		return llm.Image{}, err
	}

	if sniffed := http.DetectContentType(img.Data); !strings.HasPrefix(sniffed, "image/") {
		return llm.Image{}, fmt.Errorf("%w: payload is %s", ErrInvalidImageInput, sniffed)
	}
	return img, nil
}

func decodeBase64(input string) (llm.Image, error) {
	body := input
	declared := ""
	if m := dataURIHeader.FindStringSubmatch(body); m != nil {
		declared = m[1]
		body = body[len(m[0]):]
	}

	if !base64Body.MatchString(body) {
		return llm.Image{}, fmt.Errorf("%w: not a file or base64 payload", ErrInvalidImageInput)
	}

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return llm.Image{}, fmt.Errorf("%w: %w", ErrInvalidImageInput, err)
	}

	return llm.Image{Data: data, MediaType: mediaType(data, declared)}, nil
}

func mediaType(data []byte, declared string) string {
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if declared != "" {
		return declared
	}
	return fallbackMediaType
}
