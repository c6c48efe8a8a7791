// Package file loads question banks from a directory of YAML or JSON documents.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"maturity-quiz-service/internal/domain"
)

var bankIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

var extensions = []string{".yaml", ".yml", ".json"}

// BankLoader reads <dir>/<bankID>.{yaml,yml,json}.
type BankLoader struct {
	dir string
}

func NewBankLoader(dir string) *BankLoader {
	return &BankLoader{dir: dir}
}

func (l *BankLoader) LoadBank(_ context.Context, bankID string) (domain.QuestionBank, error) {
	if !bankIDPattern.MatchString(bankID) {
		return domain.QuestionBank{}, domain.ErrBankNotFound
	}
	for _, ext := range extensions {
		path := filepath.Join(l.dir, bankID+ext)
		bank, err := ReadBank(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.QuestionBank{}, err
		}
		if bank.ID == "" {
			bank.ID = bankID
		}
		if bank.ID != bankID {
			return domain.QuestionBank{}, fmt.Errorf("bank file %s declares id %q", path, bank.ID)
		}
		return bank, nil
	}
	return domain.QuestionBank{}, domain.ErrBankNotFound
}

// ReadBank decodes a single bank document. JSON is accepted as a YAML subset.
func ReadBank(path string) (domain.QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.QuestionBank{}, err
	}
	var bank domain.QuestionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return domain.QuestionBank{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return bank, nil
}
