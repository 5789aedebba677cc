package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows the algorithm to change later.
const (
	DomainQuery    = "aql/query/v1"
	DomainArtifact = "aql/artifact/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// QueryFingerprint identifies a compiled query by its text and parameters.
func QueryFingerprint(text string, params map[string]any) (string, error) {
	if params == nil {
		params = map[string]any{}
	}
	data, err := Marshal(map[string]any{
		"text":   text,
		"params": params,
	})
	if err != nil {
		return "", fmt.Errorf("QueryFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainQuery, data), nil
}

// MustQueryFingerprint is QueryFingerprint for inputs known to be valid.
func MustQueryFingerprint(text string, params map[string]any) string {
	fp, err := QueryFingerprint(text, params)
	if err != nil {
		panic(err)
	}
	return fp
}

// ArtifactKey identifies an artifact by storage, repository and path.
func ArtifactKey(storageID, repositoryID, path string) (string, error) {
	data, err := Marshal(map[string]any{
		"storage_id":    storageID,
		"repository_id": repositoryID,
		"path":          path,
	})
	if err != nil {
		return "", fmt.Errorf("ArtifactKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainArtifact, data), nil
}
