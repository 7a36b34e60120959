package fetch

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the job board platform hosting urlStr.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case hasDomain(host, "greenhouse.io"):
		return PlatformGreenhouse
	case hasDomain(host, "lever.co"):
		return PlatformLever
	case hasDomain(host, "myworkdayjobs.com"), hasDomain(host, "workday.com"):
		return PlatformWorkday
	default:
		return PlatformUnknown
	}
}

func hasDomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// ListingSelector returns the selector matching one job title on the
// platform's board page, or "" for unknown platforms.
func ListingSelector(platform Platform) string {
	switch platform {
	case PlatformGreenhouse:
		// Classic boards, then the newer job-boards layout.
		return "div.opening > a, tr.job-post a p.body--medium"
	case PlatformLever:
		return ".posting-title h5"
	case PlatformWorkday:
		return "[data-automation-id='jobTitle']"
	default:
		return ""
	}
}

// RequiresBrowser reports whether the platform renders its board with
// JavaScript, so a plain HTTP fetch sees no listings.
func RequiresBrowser(platform Platform) bool {
	return platform == PlatformWorkday
}

// PlatformNoiseSelectors returns elements to drop before extracting listings.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"script",
		"style",
		"nav",
		"form",
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
		".social-share",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", "#application-form")
	case PlatformLever:
		return append(common, ".apply-section", ".lever-application-form")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']")
	default:
		return common
	}
}

// StripNoise removes the platform's noise elements from doc in place.
func StripNoise(doc *goquery.Document, platform Platform) {
	doc.Find(strings.Join(PlatformNoiseSelectors(platform), ", ")).Remove()
}
