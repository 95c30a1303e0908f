// internal/ml/artifact.go
// Serialized bundle of all trained model state. Written by cmd/train,
// loaded once at API startup, immutable afterwards.

package ml

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact is the on-disk form of the trained models.
type Artifact struct {
	Vectorizer *Vectorizer
	Clusters   *KMeans
	Scaler     *StandardScaler
	Forest     *RandomForest
	TrainedAt  time.Time
}

// LoadArtifact reads a trained artifact from path. A missing file is
// the normal "no model yet" case and returns (nil, nil); the caller
// branches to the deterministic path.
func LoadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	var artifact Artifact
	if err := gob.NewDecoder(f).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}

	return &artifact, nil
}

// Save writes the artifact atomically (temp file + rename) so a
// concurrently starting API process never reads a half-written bundle.
func (a *Artifact) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "artifact-*.gob")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}

	if err := gob.NewEncoder(tmp).Encode(a); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
