package common

import "strings"

// JoinURLPath joins path segments onto baseURL with exactly one slash between them.
func JoinURLPath(baseURL string, paths ...string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	cleanPaths := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.Trim(p, "/"); p != "" {
			cleanPaths = append(cleanPaths, p)
		}
	}

	if len(cleanPaths) > 0 {
		return baseURL + "/" + strings.Join(cleanPaths, "/")
	}
	if baseURL == "" {
		return "/"
	}
	return baseURL
}
