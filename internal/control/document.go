package control

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/verkaro/editml-go"
	"go.uber.org/zap"
)

// reviewMarkup spots the opening of an EditML annotation: {+add+}, {-del-},
// {>note<}, {=mark=} and the {move~..~tag} / {copy:tag} structural edits.
var reviewMarkup = regexp.MustCompile(`\{([-+>=]|(?:move|mv|m|copy|cp|c)[~:])`)

// LoadDocument reads the free-form control document. A missing document is
// not an error and yields "". Documents carrying EditML review markup are
// reduced to their clean view before any extraction sees them.
func LoadDocument(path string, log *zap.Logger) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("control document not found, using overrides and defaults only", zap.String("path", path))
			return "", nil
		}
		return "", fmt.Errorf("failed to read control document %s: %w", path, err)
	}
	raw := string(data)
	if !reviewMarkup.MatchString(raw) {
		return raw, nil
	}
	clean, err := cleanView(raw)
	if err != nil {
		log.Warn("review markup could not be resolved, using raw document", zap.String("path", path), zap.Error(err))
		return raw, nil
	}
	return clean, nil
}

// cleanView accepts every EditML suggestion and drops comments and highlights.
func cleanView(raw string) (string, error) {
	nodes, parseIssues := editml.Parse(raw)
	if len(parseIssues) > 0 && parseIssues[0].Severity == editml.SeverityError {
		return "", fmt.Errorf("editml parsing error: %s", parseIssues[0].Message)
	}
	clean, transformIssues := editml.TransformCleanView(nodes)
	if len(transformIssues) > 0 && transformIssues[0].Severity == editml.SeverityError {
		return "", fmt.Errorf("editml transformation error: %s", transformIssues[0].Message)
	}
	return clean, nil
}
