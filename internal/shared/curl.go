// Utilities for parsing cURL commands copied from a browser session.
package shared

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
)

// CurlCapture represents headers and the catalog client_id extracted from a cURL command.
type CurlCapture struct {
	Headers  map[string]string
	Cookie   string
	ClientID string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers and client_id.
func ParseCurlFile(filepath string) (*CurlCapture, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string.
//
// The catalog API keys every request on a client_id query parameter; browsers
// include it in the copied request URL, so it is lifted out here for config.
func ParseCurlCommand(data []byte) (*CurlCapture, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	var cookie string

	headerRegex := regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	for _, match := range headerRegex.FindAllStringSubmatch(curlCmd, -1) {
		headerLine := match[1]
		if headerLine == "" {
			headerLine = match[2]
		}

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.EqualFold(key, "cookie") {
			cookie = value
		} else {
			headers[key] = value
		}
	}

	capture := &CurlCapture{Headers: headers, Cookie: cookie}

	urlRegex := regexp.MustCompile(`curl\s+'([^']+)'|curl\s+"([^"]+)"|curl\s+(\S+)`)
	if match := urlRegex.FindStringSubmatch(curlCmd); match != nil {
		rawURL := match[1]
		if rawURL == "" {
			rawURL = match[2]
		}
		if rawURL == "" {
			rawURL = match[3]
		}
		if u, err := url.Parse(rawURL); err == nil {
			capture.ClientID = u.Query().Get("client_id")
		}
	}

	if len(headers) == 0 && cookie == "" && capture.ClientID == "" {
		return nil, fmt.Errorf("no headers or client_id found in curl command")
	}

	return capture, nil
}
