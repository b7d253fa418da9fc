package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo summarises the client device behind a request. It is
// stored in audit entry details for state-changing requests.
type DeviceInfo struct {
	DeviceType string `json:"device_type"`
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	BrowserVer string `json:"browser_version,omitempty"`
	IsBot      bool   `json:"is_bot"`
	Raw        string `json:"raw,omitempty"`
}

// ParseUserAgent extracts device information from a User-Agent header
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{
			DeviceType: "unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
		}
	}

	parser := ua.New(userAgent)
	browser, version := parser.Browser()

	info := DeviceInfo{
		OS:         parser.OS(),
		Browser:    browser,
		BrowserVer: version,
		IsBot:      parser.Bot(),
		Raw:        userAgent,
	}

	switch {
	case parser.Mobile() && isTablet(userAgent):
		info.DeviceType = "tablet"
	case parser.Mobile():
		info.DeviceType = "mobile"
	default:
		info.DeviceType = "desktop"
	}

	if info.OS == "" {
		info.OS = "Unknown"
	}
	if info.Browser == "" {
		info.Browser = "Unknown"
	}

	return info
}

func isTablet(userAgent string) bool {
	lower := strings.ToLower(userAgent)
	return strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet")
}
