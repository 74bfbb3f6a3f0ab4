// Package deliver sequences the secure delivery pipeline for one scenario:
// encrypt the source, select the backend by target kind, upload the
// artifact. The first failing stage aborts the rest.
package deliver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/inboxtester/internal/common"
	"github.com/dmitrijs2005/inboxtester/internal/envelope"
	"github.com/dmitrijs2005/inboxtester/internal/keys"
	"github.com/dmitrijs2005/inboxtester/internal/logging"
	"github.com/dmitrijs2005/inboxtester/internal/transfer"
)

// Stage names the pipeline step an error originated from.
type Stage string

const (
	StageEncrypt  Stage = "encrypt"
	StageTransfer Stage = "transfer"
)

// Outcome reports the result of one delivery. It is not persisted anywhere;
// the files left on the remote side are the fixtures under verification.
type Outcome struct {
	OK       bool
	Stage    Stage
	Artifact string
	Err      error
}

// Orchestrator wires the encryptor and the selected backend for a target.
type Orchestrator struct {
	encryptor *envelope.Encryptor
	backend   transfer.Backend
	log       logging.Logger
}

// New builds an orchestrator for the given key material and target. The
// backend is selected by target.Kind.
func New(material *keys.Material, target transfer.Target, log logging.Logger) (*Orchestrator, error) {
	backend, err := transfer.New(target, log)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		encryptor: envelope.NewEncryptor(material, log),
		backend:   backend,
		log:       log,
	}, nil
}

// newOrchestrator assembles an orchestrator from parts; used by tests to
// substitute a fake backend.
func newOrchestrator(enc *envelope.Encryptor, backend transfer.Backend, log logging.Logger) *Orchestrator {
	return &Orchestrator{encryptor: enc, backend: backend, log: log}
}

// Deliver runs encrypt → upload for sourcePath. Neither stage is retried;
// only the pre-flight connection probe retries network errors. The returned
// Outcome carries the first error tagged with its originating stage.
func (o *Orchestrator) Deliver(ctx context.Context, sourcePath string) Outcome {
	log := o.log.With("delivery", uuid.NewString())

	artifact, err := o.encryptor.EncryptFile(ctx, sourcePath)
	if err != nil {
		log.Error(ctx, "delivery failed", "stage", StageEncrypt, "error", err)
		return Outcome{Stage: StageEncrypt, Err: fmt.Errorf("%s: %w", StageEncrypt, err)}
	}

	if err := o.backend.Upload(ctx, artifact); err != nil {
		log.Error(ctx, "delivery failed", "stage", StageTransfer, "error", err)
		return Outcome{Stage: StageTransfer, Artifact: artifact, Err: fmt.Errorf("%s: %w", StageTransfer, err)}
	}

	log.Info(ctx, "delivery complete "+common.PassMarker, "artifact", artifact)
	return Outcome{OK: true, Stage: StageTransfer, Artifact: artifact}
}

// Remove cleans the delivered artifact off the remote side.
func (o *Orchestrator) Remove(ctx context.Context, sourcePath string) error {
	return o.backend.Remove(ctx, envelope.OutputPath(sourcePath))
}
