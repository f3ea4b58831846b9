// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"net/url"
	"path"
	"strings"

	"github.com/pdiddy/boundary-fetch/internal/outline"
	"github.com/pdiddy/boundary-fetch/pkg/types"
)

// Endpoint paths relative to the site root.
const (
	lookupByCodePath    = "getGsonDB"
	lookupByAddressPath = "getCunAddress"
	downloadPath        = "downloadVector/"
)

func siteRoot(base string) string {
	return strings.TrimSuffix(base, "/") + "/"
}

// LookupURL returns the lookup request for an entry. Levels 1-4 are
// resolved by division code; villages are resolved by the concatenated
// full name because the site has no code index for them.
func LookupURL(base string, e outline.Entry) string {
	root := siteRoot(base)
	if e.Node.Level == types.LevelVillage {
		return root + lookupByAddressPath + "?address=" + url.QueryEscape(e.FullName())
	}
	return root + lookupByCodePath + "?code=" + url.QueryEscape(e.Node.Code)
}

// Stem returns the final element of a server-side file path without its
// extension: "data/2023/110000.json" becomes "110000".
func Stem(remote string) string {
	base := path.Base(strings.ReplaceAll(remote, `\`, "/"))
	if stem := strings.TrimSuffix(base, path.Ext(base)); stem != "" {
		return stem
	}
	return base
}

// DownloadURL returns the download request for a file path returned by a
// lookup.
func DownloadURL(base, remote, format string) string {
	return siteRoot(base) + downloadPath + url.PathEscape(Stem(remote)) + "?format=" + url.QueryEscape(format)
}
