package platform

import "strings"

// Known source platforms
const (
	PlatformYouTube   = "youtube"
	PlatformTwitter   = "twitter"
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
	PlatformUnknown   = "unknown"
)

// BrowserUserAgent is sent on requests to platforms that reject the default
// client identity.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Detect returns the platform identifier for a media URL, or
// PlatformUnknown if the host is not supported.
func Detect(url string) string {
	switch {
	case strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be"):
		return PlatformYouTube
	case strings.Contains(url, "twitter.com") || strings.Contains(url, "x.com"):
		return PlatformTwitter
	case strings.Contains(url, "tiktok.com"):
		return PlatformTikTok
	case strings.Contains(url, "instagram.com") || strings.Contains(url, "instagr.am"):
		return PlatformInstagram
	default:
		return PlatformUnknown
	}
}

// RequestHeaders returns extra HTTP headers required to fetch from the given
// platform. Instagram and TikTok refuse non-browser user agents.
func RequestHeaders(platform string) map[string]string {
	switch platform {
	case PlatformInstagram, PlatformTikTok:
		return map[string]string{"User-Agent": BrowserUserAgent}
	default:
		return nil
	}
}
