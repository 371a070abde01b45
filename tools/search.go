package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type searchInput struct {
	SearchPattern   string   `json:"search_pattern" jsonschema_description:"Case-insensitive substring to search for."`
	FileExtensions  []string `json:"file_extensions,omitempty" jsonschema_description:"Limit the search to these extensions (without the dot)."`
	MaxResults      int      `json:"max_results,omitempty" jsonschema_description:"Cap on returned matches, default 10."`
}

const (
	searchMaxDepth   = 3
	defaultMaxResults = 10
	sampleSize       = 5
)

func searchCacheKey(pattern string, extensions []string, maxResults int) string {
	sorted := append([]string(nil), extensions...)
	sort.Strings(sorted)
	return fmt.Sprintf("%s:%s:%d", pattern, strings.Join(sorted, ","), maxResults)
}

func searchTool(ctx context.Context, r *Registry, input json.RawMessage) (Result, error) {
	params, err := parseInput[searchInput](input)
	if err != nil {
		return Result{}, err
	}
	if params.SearchPattern == "" {
		return Result{Status: StatusError, Message: "search_pattern is required"}, nil
	}
	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	key := searchCacheKey(params.SearchPattern, params.FileExtensions, maxResults)
	if entry, ok := r.state.Search[key]; ok && searchCacheValid(r.workDir, entry, r.state.SearchTTL) {
		return Result{Status: StatusSuccess, Payload: map[string]any{
			"matches": entry.Results, "files_searched": entry.FilesSearched, "from_cache": true,
		}}, nil
	}

	extSet := make(map[string]bool, len(params.FileExtensions))
	for _, e := range params.FileExtensions {
		extSet[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}

	pattern := strings.ToLower(params.SearchPattern)
	var matches []SearchMatch
	var sampled []SampledFile
	filesSearched := 0

	err = filepath.WalkDir(r.workDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, _ := filepath.Rel(r.workDir, path)
		depth := len(strings.Split(filepath.ToSlash(rel), "/"))

		if d.IsDir() {
			if shouldSkipDir(d.Name()) || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if depth > searchMaxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if depth > searchMaxDepth+1 {
			return nil
		}
		if len(extSet) > 0 {
			ext := strings.TrimPrefix(filepath.Ext(d.Name()), ".")
			if !extSet[strings.ToLower(ext)] {
				return nil
			}
		}

		filesSearched++
		if len(sampled) < sampleSize {
			if info, err := d.Info(); err == nil {
				sampled = append(sampled, SampledFile{Path: rel, MTime: info.ModTime(), Size: info.Size()})
			}
		}

		if len(matches) >= maxResults {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			if strings.Contains(strings.ToLower(line), pattern) {
				matches = append(matches, SearchMatch{
					Path: filepath.ToSlash(rel), Line: lineNum, Content: strings.TrimSpace(line),
				})
				if len(matches) >= maxResults {
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}, nil
	}

	r.lastUpdate.SearchKey = key
	r.lastUpdate.SearchEntry = &SearchCacheEntry{
		Results: matches, FilesSearched: filesSearched, SampledFiles: sampled, Timestamp: time.Now(),
	}

	return Result{Status: StatusSuccess, Payload: map[string]any{
		"matches": matches, "files_searched": filesSearched, "from_cache": false,
	}}, nil
}

// searchCacheValid applies the TTL + sampled-mtime invalidation rule: the
// cache is usable while it's younger than the TTL and the first sampled
// files haven't changed since.
func searchCacheValid(workDir string, entry SearchCacheEntry, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if time.Now().Sub(entry.Timestamp) >= ttl {
		return false
	}
	for _, sf := range entry.SampledFiles {
		info, err := os.Stat(filepath.Join(workDir, sf.Path))
		if err != nil {
			return false
		}
		if !info.ModTime().Equal(sf.MTime) || info.Size() != sf.Size {
			return false
		}
	}
	return true
}
