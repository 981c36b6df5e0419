package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

const DefaultImageMIME = "image/jpeg"

var placeholderKeys = map[string]bool{
	"placeholder_api_key": true,
	"your_api_key":        true,
	"your-api-key":        true,
	"api_key":             true,
	"undefined":           true,
	"null":                true,
	"changeme":            true,
	"xxx":                 true,
}

// IsPlaceholderKey reports whether an API key is missing or an obvious
// template value that was never replaced.
func IsPlaceholderKey(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" || placeholderKeys[k] {
		return true
	}
	return strings.HasPrefix(k, "your_") || strings.HasPrefix(k, "your-")
}

// HTTPStatus extracts the upstream HTTP status from a provider SDK error, or 0.
func HTTPStatus(err error) int {
	if err == nil {
		return 0
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	// The Gemini SDK wraps transport errors in an APIError; HTTPCode is -1
	// when the failure came over gRPC.
	var gaxErr *apierror.APIError
	if errors.As(err, &gaxErr) && gaxErr.HTTPCode() > 0 {
		return gaxErr.HTTPCode()
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	return 0
}

// IsModelNotFound reports a 404 from either vendor, which is how a retired
// or renamed model shows up.
func IsModelNotFound(err error) bool {
	return HTTPStatus(err) == http.StatusNotFound
}

// ParseDataURL splits a "data:<mime>;base64,<payload>" URL into its MIME type
// and decoded bytes. A bare base64 string is accepted with the default MIME.
func ParseDataURL(s string) (string, []byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil, errors.New("empty image data")
	}

	mime := DefaultImageMIME
	payload := s
	if strings.HasPrefix(s, "data:") {
		header, data, ok := strings.Cut(s, ",")
		if !ok {
			return "", nil, errors.New("malformed data URL: missing comma")
		}
		payload = data
		meta := strings.TrimPrefix(header, "data:")
		if !strings.HasSuffix(meta, ";base64") {
			return "", nil, errors.New("malformed data URL: only base64 payloads are supported")
		}
		if m := strings.TrimSuffix(meta, ";base64"); m != "" {
			mime = m
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 image data: %w", err)
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", nil, fmt.Errorf("unsupported media type %q", mime)
	}
	return mime, data, nil
}
