// Package redact removes secret values from rendered test reports.
package redact

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/redactwriter"
	"github.com/bitrise-steplib/steps-maven-test-results/resulttree"
)

// ReportEncoder renders a result tree.
type ReportEncoder interface {
	Encode(tree *resulttree.Tree) ([]byte, error)
}

// Encoder redacts the output of another encoder.
type Encoder struct {
	encoder ReportEncoder
	secrets []string
	logger  log.Logger
}

// NewEncoder ...
func NewEncoder(encoder ReportEncoder, secrets []string, logger log.Logger) Encoder {
	return Encoder{
		encoder: encoder,
		secrets: secrets,
		logger:  logger,
	}
}

// Encode ...
func (e Encoder) Encode(tree *resulttree.Tree) ([]byte, error) {
	data, err := e.encoder.Encode(tree)
	if err != nil {
		return nil, err
	}
	return Redact(data, e.secrets, e.logger)
}

// Redact returns data with every occurrence of the secrets masked.
func Redact(data []byte, secrets []string, logger log.Logger) ([]byte, error) {
	if len(secrets) == 0 {
		return data, nil
	}

	var buf bytes.Buffer
	redactWriter := redactwriter.New(secrets, &buf, logger)
	if _, err := io.Copy(redactWriter, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to redact secrets: %w", err)
	}
	if err := redactWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close redact writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Secrets returns the non-empty values of the environment variables named by keys.
func Secrets(envRepository env.Repository, keys []string) []string {
	var secrets []string
	for _, key := range keys {
		key = strings.TrimPrefix(strings.TrimSpace(key), "$")
		if key == "" {
			continue
		}
		if value := envRepository.Get(key); strings.TrimSpace(value) != "" {
			secrets = append(secrets, value)
		}
	}
	return secrets
}
