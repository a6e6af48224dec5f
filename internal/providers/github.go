package providers

import (
	"encoding/json"
	"io"
)

// decodeGitHub decodes a GitHub (or Gitee, which mirrors the shape) release listing:
// [{tag_name, assets: [{name, content_type, browser_download_url}]}]
func decodeGitHub(r io.Reader) ([]Release, error) {
	var releases []Release
	if err := json.NewDecoder(r).Decode(&releases); err != nil {
		return nil, err
	}
	return releases, nil
}
