package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML document accepted by ImportFixtures:
//
//	artifacts:
//	  - storage: storage0
//	    repository: releases
//	    path: org/foo/bar/1.0/bar-1.0.jar
//	    layout: Maven 2
//	    coordinates: {groupId: org.foo, artifactId: bar, version: "1.0", extension: jar}
//	    version: "1.0"
//	    tags: [release]
//	    size: 1024
//	    last_updated: "2024-01-10"
type Fixtures struct {
	Artifacts []Artifact `yaml:"artifacts"`
}

// LoadFixtures parses a fixtures document. Unknown fields are errors.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var f Fixtures
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// ImportFixtures writes every artifact of a fixtures document and returns
// how many were written. The import stops at the first failing entry.
func (s *Store) ImportFixtures(ctx context.Context, r io.Reader) (int, error) {
	f, err := LoadFixtures(r)
	if err != nil {
		return 0, err
	}
	for i, a := range f.Artifacts {
		if _, err := s.WriteArtifact(ctx, a); err != nil {
			return i, fmt.Errorf("fixture %d: %w", i, err)
		}
	}
	s.logger.Info("fixtures imported", zap.Int("artifacts", len(f.Artifacts)))
	return len(f.Artifacts), nil
}

// ImportFixturesFile is ImportFixtures over a file path.
func (s *Store) ImportFixturesFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return s.ImportFixtures(ctx, f)
}
