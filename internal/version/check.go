package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/romferry/romferry/internal/constants"
)

// releasesURL points at the latest-release metadata for the project.
const releasesURL = "https://api.github.com/repos/romferry/romferry/releases/latest"

// Release holds the subset of release metadata the update check reads.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckResult reports the outcome of an update check.
type CheckResult struct {
	Current  string
	Latest   string
	UpToDate bool
	URL      string
}

// CheckLatest queries the published release metadata and compares the
// latest tag against the running version.
func CheckLatest(ctx context.Context) (*CheckResult, error) {
	client := retryablehttp.NewClient()
	client.RetryMax = constants.VersionCheckRetries
	client.HTTPClient.Timeout = constants.VersionCheckTimeout
	client.Logger = nil

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("release check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("release check: unexpected status %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("release check: decode: %w", err)
	}

	return &CheckResult{
		Current:  Version,
		Latest:   rel.TagName,
		UpToDate: !Newer(rel.TagName, Version),
		URL:      rel.HTMLURL,
	}, nil
}

// Newer reports whether tag a denotes a strictly newer release than tag b.
// Tags compare numerically per dotted component; a pre-release suffix
// ("-dev", "-rc1") is ignored. Unparseable tags are never newer.
func Newer(a, b string) bool {
	av, aok := parseTag(a)
	bv, bok := parseTag(b)
	if !aok || !bok {
		return false
	}
	for i := 0; i < 3; i++ {
		if av[i] != bv[i] {
			return av[i] > bv[i]
		}
	}
	return false
}

func parseTag(tag string) ([3]int, bool) {
	var v [3]int
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "v")
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" {
		return v, false
	}
	parts := strings.Split(tag, ".")
	if len(parts) > 3 {
		return v, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return v, false
		}
		v[i] = n
	}
	return v, true
}
