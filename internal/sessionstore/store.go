// Package sessionstore loads recorded agent sessions from a directory of
// JSON files. A session lives in `<id>.json` or, for archived transcripts,
// `<id>.json.gz`. Every file is validated against an embedded JSON Schema
// before it is handed to the analysis engine.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	_ "embed"

	"github.com/agentlint/agentlint/internal/models"
)

// ErrSessionNotFound is returned when no transcript file exists for the
// requested session ID.
var ErrSessionNotFound = errors.New("session not found")

//go:embed session.schema.json
var sessionSchemaJSON string

var (
	sessionSchema *jsonschema.Schema
	schemaPrinter = message.NewPrinter(language.English)
)

func init() {
	var doc any
	if err := json.Unmarshal([]byte(sessionSchemaJSON), &doc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded session.schema.json: %v", err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("session.schema.json", doc); err != nil {
		panic(fmt.Sprintf("failed to add session.schema.json resource: %v", err))
	}

	sch, err := compiler.Compile("session.schema.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile session.schema.json: %v", err))
	}
	sessionSchema = sch
}

// sessionFile is the on-disk layout of one recorded session.
type sessionFile struct {
	Info     models.SessionInfo        `json:"info"`
	Messages []models.MessageWithParts `json:"messages"`
}

// Store reads sessions from a single directory.
type Store struct {
	dir string
}

// NewStore opens a session store rooted at dir. The directory must exist.
func NewStore(dir string) (*Store, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("opening session store: %s is not a directory", dir)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store reads from.
func (s *Store) Dir() string { return s.dir }

// SessionInfo returns the metadata of the given session.
func (s *Store) SessionInfo(ctx context.Context, id string) (models.SessionInfo, error) {
	sf, err := s.load(ctx, id)
	if err != nil {
		return models.SessionInfo{}, err
	}
	return sf.Info, nil
}

// Messages returns the full transcript of the given session.
func (s *Store) Messages(ctx context.Context, id string) ([]models.MessageWithParts, error) {
	sf, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return sf.Messages, nil
}

// List returns the IDs of all sessions in the store, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	seen := map[string]struct{}{}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		var id string
		switch {
		case strings.HasSuffix(name, ".json.gz"):
			id = strings.TrimSuffix(name, ".json.gz")
		case strings.HasSuffix(name, ".json"):
			id = strings.TrimSuffix(name, ".json")
		default:
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Sessions returns metadata for every session in the store, sorted by ID.
func (s *Store) Sessions(ctx context.Context) ([]models.SessionInfo, error) {
	ids, err := s.List()
	if err != nil {
		return nil, err
	}
	infos := make([]models.SessionInfo, 0, len(ids))
	for _, id := range ids {
		info, err := s.SessionInfo(ctx, id)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *Store) load(ctx context.Context, id string) (*sessionFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, path, err := s.readRaw(id)
	if err != nil {
		return nil, err
	}

	if errs := validateSession(data); len(errs) > 0 {
		slog.Debug("session failed schema validation", "session", id, "path", path, "errors", errs)
		return nil, fmt.Errorf("session %q is malformed: %s", id, strings.Join(errs, "; "))
	}

	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("decoding session %q: %w", id, err)
	}
	if sf.Info.ID == "" {
		sf.Info.ID = id
	}
	return &sf, nil
}

// readRaw reads the transcript bytes for id, transparently decompressing the
// .json.gz form. The plain .json file wins when both exist.
func (s *Store) readRaw(id string) ([]byte, string, error) {
	plain := filepath.Join(s.dir, id+".json")
	if data, err := os.ReadFile(plain); err == nil {
		return data, plain, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("reading session %q: %w", id, err)
	}

	compressed := filepath.Join(s.dir, id+".json.gz")
	f, err := os.Open(compressed)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading session %q: %w", id, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("decompressing session %q: %w", id, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, "", fmt.Errorf("decompressing session %q: %w", id, err)
	}
	return data, compressed, nil
}

// validateSession checks raw transcript JSON against the embedded schema and
// returns human-readable errors, one per failing location.
func validateSession(data []byte) []string {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}

	err := sessionSchema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(schemaPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
