package providers

import (
	"encoding/json"
	"io"
)

// gitlabRelease is the subset of a GitLab release used here. Downloads live under
// assets.links; generated source archives are ignored.
type gitlabRelease struct {
	TagName string `json:"tag_name"`
	Assets  struct {
		Links []struct {
			Name           string `json:"name"`
			URL            string `json:"url"`
			DirectAssetURL string `json:"direct_asset_url"`
			LinkType       string `json:"link_type"`
		} `json:"links"`
	} `json:"assets"`
}

func decodeGitLab(r io.Reader) ([]Release, error) {
	var raw []gitlabRelease
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}

	releases := make([]Release, 0, len(raw))
	for _, rel := range raw {
		out := Release{TagName: rel.TagName}
		for _, link := range rel.Assets.Links {
			u := link.DirectAssetURL
			if u == "" {
				u = link.URL
			}
			out.Assets = append(out.Assets, Asset{Name: link.Name, ContentType: link.LinkType, BrowserDownloadURL: u})
		}
		releases = append(releases, out)
	}
	return releases, nil
}
