// Package audit records state-mutating actions for lifeorg's audit trail.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/lifeorg/internal/models"
	"github.com/fentz26/lifeorg/internal/store"
)

// Writer appends audit entries describing scheduling runs and other
// mutations.
type Writer struct {
	store *store.Store
}

// NewWriter creates a new audit writer.
func NewWriter(s *store.Store) *Writer {
	return &Writer{store: s}
}

// Record writes an audit entry for a state-mutating action.
func (w *Writer) Record(action string, inputs interface{}, outcome, details string) (*models.AuditEntry, error) {
	return w.store.WriteAudit(action, hashInputs(inputs), outcome, details)
}

// hashInputs creates a SHA256 hash of the inputs for reproducibility.
func hashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
