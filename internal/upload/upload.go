package upload

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Ingest sources and the file extensions collected for them.
const (
	SourceCSV   = "csv"
	SourceAlpha = "alpha"
)

var sourceExtensions = map[string][]string{
	SourceCSV:   {".csv"},
	SourceAlpha: {".txt", ".csv"},
}

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	RowsInserted int64
	RowsRejected int
}

// Uploader walks a directory of workout exports and POSTs each new or
// changed file to the LiftLens server.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	source string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir, source string, dryRun bool, log *slog.Logger) (*Uploader, error) {
	if _, ok := sourceExtensions[source]; !ok {
		return nil, fmt.Errorf("unknown source %q", source)
	}
	return &Uploader{
		client: client,
		state:  state,
		dir:    dir,
		source: source,
		dryRun: dryRun,
		log:    log,
	}, nil
}

// Run executes the upload pipeline. Per-file failures are logged and
// counted; only a failure to walk the directory aborts the run.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := u.collect()
	if err != nil {
		return &u.stats, err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		u.stats.FilesTotal++
		u.processFile(ctx, f)
	}
	return &u.stats, nil
}

// collect returns the export files under the directory in lexical order.
func (u *Uploader) collect() ([]string, error) {
	exts := sourceExtensions[u.source]
	var files []string
	err := filepath.WalkDir(u.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != u.dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range exts {
			if ext == want {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", u.dir, err)
	}
	return files, nil
}

func (u *Uploader) processFile(ctx context.Context, path string) {
	relPath, _ := filepath.Rel(u.dir, path)

	rec, err := Fingerprint(u.dir, relPath)
	if err != nil {
		u.log.Warn("fingerprint failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return
	}

	seen, err := u.state.Seen(rec)
	if err != nil {
		u.log.Warn("state check failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return
	}
	if seen {
		u.stats.FilesSkipped++
		return
	}

	if u.dryRun {
		u.log.Info("dry-run: would send", "file", relPath, "bytes", rec.Size)
		u.stats.FilesUploaded++
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		u.log.Warn("read failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return
	}

	result, err := u.client.Send(ctx, u.source, data)
	if err != nil {
		u.log.Warn("upload failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return
	}

	u.stats.FilesUploaded++
	u.stats.RowsInserted += result.RowsInserted
	u.stats.RowsRejected += result.RowsRejected

	rec.ImportID = result.ImportID.String()
	rec.RowsInserted = result.RowsInserted
	if err := u.state.Save(rec); err != nil {
		u.log.Warn("failed to record upload", "file", relPath, "error", err)
	}

	u.log.Info("uploaded file",
		"file", relPath,
		"rows_received", result.RowsReceived,
		"rows_inserted", result.RowsInserted,
		"rows_rejected", result.RowsRejected,
	)
}
