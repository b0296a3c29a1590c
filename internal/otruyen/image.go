// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package otruyen

import (
	"strings"

	"github.com/taibuivan/truyennet/internal/platform/constants"
)

// ResolveImageURL turns a thumbnail path from the API into an absolute URL.
//
//   - "" → the placeholder image
//   - "http://…" or "https://…" → unchanged
//   - anything else → cdnBase + "/" + path
func ResolveImageURL(cdnBase, path string) string {
	if path == "" {
		return constants.PlaceholderImage
	}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	return strings.TrimRight(cdnBase, "/") + "/" + strings.TrimLeft(path, "/")
}
