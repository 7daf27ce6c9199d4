package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/loaders"
)

// Scene types
const (
	TypeBuiltin = "builtin"
	TypeFile    = "file"
)

// BuiltinGroup is the group name for scenes compiled into the binary
const BuiltinGroup = "Built-in Scenes"

// ErrUnknownScene is returned when a scene name resolves to nothing
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Name used to select the scene
	DisplayName string // Human readable name
	Description string
	Group       string // Grouping category
	Type        string // TypeBuiltin or TypeFile
	FilePath    string // Path to the YAML file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string
	Scenes []SceneInfo
}

// BuiltinScenes lists the scenes compiled into the binary
func BuiltinScenes() []SceneInfo {
	return []SceneInfo{
		{
			ID:          "basic",
			DisplayName: "Basic",
			Description: "Grey sphere on a grey ground sphere",
			Group:       BuiltinGroup,
			Type:        TypeBuiltin,
		},
		{
			ID:          "materials",
			DisplayName: "Materials",
			Description: "Diffuse, hollow glass and metal spheres (default)",
			Group:       BuiltinGroup,
			Type:        TypeBuiltin,
		},
		{
			ID:          "cover",
			DisplayName: "Cover",
			Description: "Random field of small spheres with three large feature spheres",
			Group:       BuiltinGroup,
			Type:        TypeBuiltin,
		},
	}
}

// ListFileScenes scans dir for YAML scene files. A missing directory yields no scenes.
func ListFileScenes(dir string, logger core.Logger) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []SceneInfo{}, nil
		}
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Skip unreadable files but keep listing the rest
			if logger != nil {
				logger.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			}
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata reads the descriptive header of a YAML scene file,
// falling back to values derived from the file name
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:          nameWithoutExt,
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        TypeFile,
		FilePath:    filePath,
	}

	meta, err := loaders.ReadSceneMetadata(filePath)
	if err != nil {
		return info, err
	}

	if meta.Name != "" {
		info.DisplayName = meta.Name
	}
	if meta.Description != "" {
		info.Description = meta.Description
	}
	if meta.Group != "" {
		info.Group = meta.Group
	}

	return info, nil
}

// ListAllScenes returns built-in scenes first, then file scenes grouped alphabetically
func ListAllScenes(dir string, logger core.Logger) ([]SceneGroup, error) {
	fileScenes, err := ListFileScenes(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to list scene files: %w", err)
	}

	groupMap := make(map[string][]SceneInfo)
	for _, info := range append(BuiltinScenes(), fileScenes...) {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != BuiltinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	groups := []SceneGroup{{Name: BuiltinGroup, Scenes: groupMap[BuiltinGroup]}}
	for _, groupName := range groupNames {
		groups = append(groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return groups, nil
}

// FindScene resolves a scene name. Built-in names win, then an existing file path,
// then a file named <name>.yaml or <name>.yml in dir.
func FindScene(name, dir string) (SceneInfo, error) {
	for _, info := range BuiltinScenes() {
		if info.ID == name {
			return info, nil
		}
	}

	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates,
			filepath.Join(dir, name+".yaml"),
			filepath.Join(dir, name+".yml"))
	}

	for _, path := range candidates {
		if stat, err := os.Stat(path); err == nil && !stat.IsDir() {
			return ParseSceneMetadata(path)
		}
	}

	return SceneInfo{}, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// Load builds the scene described by info
func Load(info SceneInfo, seed int64, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	switch info.Type {
	case TypeFile:
		return NewSceneFromFile(info.FilePath, cameraOverrides...)
	case TypeBuiltin:
		switch info.ID {
		case "basic":
			return NewBasicScene(cameraOverrides...), nil
		case "materials":
			return NewDefaultScene(cameraOverrides...), nil
		case "cover":
			return NewCoverScene(seed, cameraOverrides...), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, info.ID)
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
