// Package media handles pasted image links: rewriting shared-drive URLs
// into directly-viewable form and serving a placeholder when a link is dead.
package media

import (
	"net/url"
	"regexp"
	"strings"
)

var driveFilePath = regexp.MustCompile(`^/file/d/([^/]+)`)

// NormalizeLink rewrites known share-link formats into a form that renders
// directly in an <img> tag. Unknown URLs pass through untouched, as do
// values that do not parse as URLs.
//
// Google Drive:
//
//	https://drive.google.com/file/d/<id>/view   -> https://drive.google.com/uc?export=view&id=<id>
//	https://drive.google.com/open?id=<id>       -> https://drive.google.com/uc?export=view&id=<id>
//	https://drive.google.com/uc?id=<id>         -> https://drive.google.com/uc?export=view&id=<id>
//
// Dropbox: dl=0 is swapped for raw=1 so the asset is served inline.
func NormalizeLink(link string) string {
	if link == "" {
		return link
	}

	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return link
	}

	switch {
	case u.Host == "drive.google.com":
		if id := driveFileID(u); id != "" {
			return "https://drive.google.com/uc?export=view&id=" + url.QueryEscape(id)
		}
		return link
	case u.Host == "www.dropbox.com" || u.Host == "dropbox.com":
		q := u.Query()
		if q.Get("dl") == "0" {
			q.Del("dl")
			q.Set("raw", "1")
			u.RawQuery = q.Encode()
			return u.String()
		}
		return link
	default:
		return link
	}
}

func driveFileID(u *url.URL) string {
	if m := driveFilePath.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	if u.Path == "/open" || u.Path == "/uc" {
		return u.Query().Get("id")
	}
	return ""
}
