package watcher

import (
	"context"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atomicobject/diskdex/internal/store"
)

var documentExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true, ".md": true,
	".rtf": true, ".odt": true, ".xls": true, ".xlsx": true, ".ppt": true,
	".pptx": true, ".csv": true, ".json": true, ".xml": true, ".html": true,
}

// classify derives the mime type, bare extension, and one of
// {image,document,audio,video,other} for a file name (§3 File.category).
func classify(name string) (mimeType, fileType, category string) {
	ext := strings.ToLower(filepath.Ext(name))
	fileType = strings.TrimPrefix(ext, ".")

	mimeType = mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	switch {
	case strings.HasPrefix(mimeType, "image/"):
		category = "image"
	case strings.HasPrefix(mimeType, "audio/"):
		category = "audio"
	case strings.HasPrefix(mimeType, "video/"):
		category = "video"
	case documentExtensions[ext]:
		category = "document"
	default:
		category = "other"
	}
	return mimeType, fileType, category
}

type scanCandidate struct {
	path       string
	folderPath string
	size       int64
	modTime    time.Time
}

// depthOf returns the number of path components of path below root
// (root itself is depth 0).
func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(filepath.ToSlash(rel), "/"))
}

// initialScan walks the root up to w.depth, records folders as it goes,
// stability-filters files, and enqueues the stable ones for upsert (§4.4
// "Initial scan"). Symlinks are skipped unless w.followSymlinks.
func (w *Watcher) initialScan(ctx context.Context) error {
	w.setState(StateScanning)

	var candidates []scanCandidate
	var total int64

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logSkip(path, walkErr)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path != w.root && w.depth >= 0 && depthOf(w.root, path) > w.depth {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if shouldIgnorePath(w.root, path, w.ignorePatterns) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.Type()&os.ModeSymlink != 0 && !w.followSymlinks {
			return nil
		}

		if d.IsDir() {
			if path == w.root {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				w.logSkip(path, err)
				return nil
			}
			w.recordFolder(ctx, path, info.ModTime())
			return nil
		}

		info, err := d.Info()
		if err != nil {
			w.logSkip(path, err)
			return nil
		}
		candidates = append(candidates, scanCandidate{
			path:       path,
			folderPath: filepath.Dir(path),
			size:       info.Size(),
			modTime:    info.ModTime(),
		})
		total++
		return nil
	})
	if err != nil {
		return err
	}

	w.setTotalFiles(total)

	if w.stabilityThreshold > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.stabilityThreshold):
		}
	}

	w.setState(StateIndexing)

	for _, c := range candidates {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		info, err := os.Stat(c.path)
		if err != nil {
			w.logSkip(c.path, err)
			w.incProcessed()
			continue
		}
		if info.Size() != c.size {
			// Still changing; the live watch loop will pick it up once it settles.
			continue
		}

		// Counted toward processedFiles when flushBatch applies it.
		w.enqueueUpsert(c.path, fileDataFor(c.path, info))
	}

	w.flushBatch(ctx)

	if err := w.store.UpdateFolderCounts(ctx, w.root); err != nil {
		return err
	}

	w.setState(StateWatching)
	w.emit(Event{Kind: EventReady})
	return nil
}

// recordFolder upserts a folder row for path and establishes its place in
// the folder tree, mirroring the teacher's addWatch bookkeeping but writing
// through to the Store instead of an in-process dirIndex.
func (w *Watcher) recordFolder(ctx context.Context, path string, modTime time.Time) {
	parent := filepath.Dir(path)
	if parent == w.root {
		parent = w.root
	}
	folder := store.Folder{
		Path:              path,
		Name:              filepath.Base(path),
		ParentPath:        parent,
		ModifiedAt:        modTime.UnixMilli(),
		IndexedAt:         w.clockNowMillis(),
		WatchedFolderPath: w.root,
	}
	if err := w.store.UpsertFolder(ctx, folder); err != nil {
		w.logSkip(path, err)
	}
	if w.fsWatcher != nil {
		_ = w.fsWatcher.Add(path)
	}
}

func fileDataFor(path string, info os.FileInfo) store.FileData {
	mimeType, fileType, category := classify(path)
	return store.FileData{
		"name":       filepath.Base(path),
		"folderPath": filepath.Dir(path),
		"size":       info.Size(),
		"modifiedAt": info.ModTime().UnixMilli(),
		"mimeType":   mimeType,
		"fileType":   fileType,
		"category":   category,
	}
}

func (w *Watcher) logSkip(path string, err error) {
	w.log.Printf("watcher: skipping %s: %v", path, err)
}
