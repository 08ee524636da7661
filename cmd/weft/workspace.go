package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"weft/internal/project"
	"weft/internal/rules"
	"weft/internal/snapshot"
	"weft/internal/source"
)

// loadWorkspace discovers the manifest, loads the semantic snapshot it names,
// and registers the manifest itself as a graph document so reference fixes
// can edit it.
func loadWorkspace(cmd *cobra.Command, startDir string) (*rules.Workspace, error) {
	manifestPath, err := cmd.Root().PersistentFlags().GetString("manifest")
	if err != nil {
		return nil, err
	}

	var manifest *project.Manifest
	if manifestPath != "" {
		manifest, err = project.LoadFile(manifestPath)
	} else {
		manifest, err = project.Load(startDir)
	}
	if err != nil {
		return nil, err
	}

	snapPath := manifest.SnapshotPath()
	if snapPath == "" {
		return nil, fmt.Errorf("%s: workspace.snapshot is not set", manifest.Path)
	}
	graph, model, err := snapshot.Load(snapPath, manifest.Root)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	if raw, err := os.ReadFile(manifest.Path); err == nil {
		graph.Add(manifest.Path, raw, source.DocManifest)
	}

	return &rules.Workspace{
		Graph:    graph,
		Model:    model,
		Manifest: manifest,
	}, nil
}
