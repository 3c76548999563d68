package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo describes a scene file found on disk
type SceneInfo struct {
	Name        string // Scene name, from the header or the file name
	Description string // Optional description from the header
	FilePath    string
}

// ListSceneFiles scans dir for *.txt scene descriptions
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, path := range files {
		info, err := ParseSceneMetadata(path)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseSceneMetadata reads "# Scene:" and "# Description:" header comments.
// Reading stops at the first line that is not a comment.
func ParseSceneMetadata(path string) (SceneInfo, error) {
	base := filepath.Base(path)
	info := SceneInfo{
		Name:     strings.TrimSuffix(base, filepath.Ext(base)),
		FilePath: path,
	}

	file, err := os.Open(path)
	if err != nil {
		return info, fmt.Errorf("failed to open scene %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}
		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if name, ok := strings.CutPrefix(content, "Scene:"); ok {
			info.Name = strings.TrimSpace(name)
		} else if description, ok := strings.CutPrefix(content, "Description:"); ok {
			info.Description = strings.TrimSpace(description)
		}
	}
	return info, scanner.Err()
}
